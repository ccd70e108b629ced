package systeminfo

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aryankumar/tabmon/internal/metrics"
)

var testTime = time.Unix(1700000000, 123456789)

func loadFixture(t *testing.T) *Node {
	t.Helper()

	f, err := os.Open("testdata/systeminfo.xml")
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return root
}

func TestRecords(t *testing.T) {
	records := Records(loadFixture(t), 2*time.Millisecond, testTime)

	var sb strings.Builder
	if err := metrics.NewEmitter(&sb).EmitAll(records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `tableau_systeminfo,process=repository,worker=node1:8060 status_code=0i,status="Active" 1700000000123456789
tableau_systeminfo,process=dataengine,worker=node1:27042 status_code=0i,status="Active" 1700000000123456789
tableau_systeminfo,process=applicationserver,worker=node1:8600 status_code=1i,status="Busy" 1700000000123456789
tableau_systeminfo,process=apiserver,worker=node1:8000 status_code=0i,status="Running" 1700000000123456789
tableau_systeminfo,process=vizqlserver,worker=node2:9100 status_code=2i,status="Down" 1700000000123456789
tableau_systeminfo,process=backgrounder,worker=node2:8250 status_code=2i,status="Unknown" 1700000000123456789
tableau_systeminfo,process=gateway,worker=Unknown status_code=1i,status="Passive" 1700000000123456789
tableau_systeminfo,worker=all status_code=0i,status="Active",elapsed=2000i 1700000000123456789
`
	if diff := cmp.Diff(expected, sb.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords_SkipsStructuralElements(t *testing.T) {
	// wrappers nested at any depth are skipped but still descended
	doc := `<systeminfo><machines><machine><machines><machine><systeminfo>` +
		`<worker status="Active"/></systeminfo></machine></machines></machine></machines></systeminfo>`

	root, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := Records(root, 0, testTime)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	for _, r := range records {
		if p, _ := r.Tag("process"); structural[p] {
			t.Errorf("emitted record for structural element %q", p)
		}
	}
	if p, _ := records[0].Tag("process"); p != "worker" {
		t.Errorf("expected process=worker, got %q", p)
	}
}

func TestRecords_DisabledIsNotApplied(t *testing.T) {
	root := &Node{Name: "vizqlserver", Attrs: map[string]string{"status": "Disabled"}}

	records := Records(root, 0, testTime)
	code, _ := records[0].Field("status_code")
	if code != int64(2) {
		t.Errorf("expected status_code 2 without a deployment state, got %v", code)
	}
}

func TestRecords_WorkerWithNewlineDoesNotEncode(t *testing.T) {
	root, err := Parse(strings.NewReader(`<systeminfo><x worker="a&#10;b" status="Active"/></systeminfo>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := Records(root, 0, testTime)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if worker, _ := records[0].Tag("worker"); worker != "a\nb" {
		t.Fatalf("expected the decoded attribute, got %q", worker)
	}

	if _, err := metrics.EncodeAll(records); !errors.Is(err, metrics.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestFallback(t *testing.T) {
	line, err := metrics.Encode(Fallback(testTime))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `tableau_systeminfo,worker=all status_code=3i,status="Unavailable" 1700000000123456789` + "\n"
	if string(line) != expected {
		t.Errorf("expected %q, got %q", expected, string(line))
	}
}
