package output

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_FormatChecks(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatChecks(&buf, sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []CheckView
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(decoded))
	}
	if decoded[0].Check != "tsm" || len(decoded[0].Records) != 2 {
		t.Errorf("unexpected first check %+v", decoded[0])
	}
	if decoded[0].Records[1].Tags["service"] != "backgrounder" {
		t.Errorf("unexpected tags %v", decoded[0].Records[1].Tags)
	}
	if decoded[1].Status != "failed" {
		t.Errorf("unexpected second check %+v", decoded[1])
	}
}

func TestYAMLFormatter_Indentation(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]interface{}{"outer": map[string]string{"inner": "value"}}
	if err := NewYAMLFormatter(nil).Format(&buf, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  inner: value") {
		t.Errorf("expected two-space indentation, got:\n%s", buf.String())
	}
}
