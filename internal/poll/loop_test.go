package poll

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/util"
)

var testTime = time.Unix(1700000000, 0)

type fakeCheck struct {
	name    string
	records []metrics.Record
	err     error
	calls   int
}

func (f *fakeCheck) Name() string { return f.name }

func (f *fakeCheck) Collect(ctx context.Context) ([]metrics.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeCheck) Fallback() metrics.Record {
	return metrics.Record{
		Measurement: f.name,
		Tags:        metrics.Tags("worker", "all"),
		Fields:      []metrics.Field{metrics.Int("status_code", 3)},
		Time:        testTime,
	}
}

func record(measurement string, v int64) metrics.Record {
	return metrics.Record{
		Measurement: measurement,
		Fields:      []metrics.Field{metrics.Int("status_code", v)},
		Time:        testTime,
	}
}

func newTestLoop(t *testing.T, out io.Writer, logs io.Writer, checks ...Check) *Loop {
	t.Helper()

	if logs == nil {
		logs = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	loop, err := NewLoop(checks, out, logger)
	if err != nil {
		t.Fatalf("failed to create loop: %v", err)
	}
	return loop
}

func TestLoop_OneCyclePerLine(t *testing.T) {
	tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0), record("tsm", 1)}}
	si := &fakeCheck{name: "systeminfo", records: []metrics.Record{record("systeminfo", 0)}}

	var out bytes.Buffer
	loop := newTestLoop(t, &out, nil, tsm, si)

	if err := loop.Run(context.Background(), strings.NewReader("\nanything\n\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loop.Cycles() != 3 {
		t.Errorf("expected 3 cycles, got %d", loop.Cycles())
	}
	if tsm.calls != 3 || si.calls != 3 {
		t.Errorf("expected 3 calls per check, got tsm=%d systeminfo=%d", tsm.calls, si.calls)
	}

	expectedCycle := "tsm status_code=0i 1700000000000000000\n" +
		"tsm status_code=1i 1700000000000000000\n" +
		"systeminfo status_code=0i 1700000000000000000\n"
	if out.String() != strings.Repeat(expectedCycle, 3) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestLoop_EndOfInputWithoutTrigger(t *testing.T) {
	tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0)}}

	var out bytes.Buffer
	loop := newTestLoop(t, &out, nil, tsm)

	if err := loop.Run(context.Background(), strings.NewReader("")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tsm.calls != 0 || out.Len() != 0 {
		t.Errorf("expected no cycle and no output, got %d calls and %q", tsm.calls, out.String())
	}
}

func TestLoop_FailureIsolation(t *testing.T) {
	tests := []struct {
		name     string
		tsmErr   error
		siErr    error
		expected string
	}{
		{
			name:   "systeminfo fails",
			siErr:  &util.FetchError{URL: "https://localhost/admin/systeminfo.xml", StatusCode: 503},
			expected: "tsm status_code=0i 1700000000000000000\n" +
				"systeminfo,worker=all status_code=3i 1700000000000000000\n",
		},
		{
			name:   "tsm fails",
			tsmErr: util.NewAuthError("credential", errors.New("status 401")),
			expected: "tsm,worker=all status_code=3i 1700000000000000000\n" +
				"systeminfo status_code=0i 1700000000000000000\n",
		},
		{
			name:   "both fail",
			tsmErr: &util.DecodeError{Source: "tsm status", Err: errors.New("bad json")},
			siErr:  &util.DecodeError{Source: "systeminfo.xml", Err: errors.New("bad xml")},
			expected: "tsm,worker=all status_code=3i 1700000000000000000\n" +
				"systeminfo,worker=all status_code=3i 1700000000000000000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0)}, err: tt.tsmErr}
			si := &fakeCheck{name: "systeminfo", records: []metrics.Record{record("systeminfo", 0)}, err: tt.siErr}

			var out, logs bytes.Buffer
			loop := newTestLoop(t, &out, &logs, tsm, si)

			if err := loop.Run(context.Background(), strings.NewReader("\n")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out.String() != tt.expected {
				t.Errorf("expected output:\n%s\ngot:\n%s", tt.expected, out.String())
			}

			failures := strings.Count(logs.String(), "check failed")
			want := 0
			for _, err := range []error{tt.tsmErr, tt.siErr} {
				if err != nil {
					want++
				}
			}
			if failures != want {
				t.Errorf("expected %d failure log lines, got %d:\n%s", want, failures, logs.String())
			}
		})
	}
}

func TestLoop_UnencodableRecordsBecomeFallback(t *testing.T) {
	bad := record("tsm", 0)
	bad.Tags = metrics.Tags("node", "node\n1")
	tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0), bad}}
	si := &fakeCheck{name: "systeminfo", records: []metrics.Record{record("systeminfo", 0)}}

	var out, logs bytes.Buffer
	loop := newTestLoop(t, &out, &logs, tsm, si)

	results, err := loop.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "tsm,worker=all status_code=3i 1700000000000000000\n" +
		"systeminfo status_code=0i 1700000000000000000\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}

	if len(results) != 2 || !errors.Is(results[0].Error, metrics.ErrInvalidRecord) || results[1].Error != nil {
		t.Errorf("expected only tsm to be reported failed, got %+v", results)
	}
	if n := strings.Count(logs.String(), "check failed"); n != 1 {
		t.Errorf("expected one failure log line, got %d", n)
	}
}

func TestLoop_LogsNeverReachOutput(t *testing.T) {
	tsm := &fakeCheck{name: "tsm", err: errors.New("connection refused")}

	var out, logs bytes.Buffer
	loop := newTestLoop(t, &out, &logs, tsm)

	if _, err := loop.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(out.String(), "connection refused") {
		t.Error("diagnostic text leaked into the metric stream")
	}
	if !strings.Contains(logs.String(), "connection refused") {
		t.Error("expected the failure to be logged")
	}
}

type blockingReader struct {
	unblock chan struct{}
}

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.unblock
	return 0, io.EOF
}

func TestLoop_CancelWhileWaiting(t *testing.T) {
	tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0)}}
	loop := newTestLoop(t, io.Discard, nil, tsm)

	in := &blockingReader{unblock: make(chan struct{})}
	defer close(in.unblock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx, in)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	if tsm.calls != 0 {
		t.Errorf("expected no cycle, got %d", tsm.calls)
	}
}

type cancellingCheck struct {
	fakeCheck
	cancel context.CancelFunc
}

func (c *cancellingCheck) Collect(ctx context.Context) ([]metrics.Record, error) {
	c.cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fakeCheck.Collect(ctx)
}

func TestLoop_CycleCompletesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tsm := &cancellingCheck{fakeCheck: fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0)}}, cancel: cancel}
	si := &fakeCheck{name: "systeminfo", records: []metrics.Record{record("systeminfo", 0)}}

	var out bytes.Buffer
	loop := newTestLoop(t, &out, nil, tsm, si)

	if err := loop.Run(ctx, strings.NewReader("\n\n\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "tsm status_code=0i 1700000000000000000\n" +
		"systeminfo status_code=0i 1700000000000000000\n"
	if !strings.HasPrefix(out.String(), expected) {
		t.Errorf("expected the in-flight cycle to complete, got:\n%s", out.String())
	}
	if loop.Cycles() < 1 {
		t.Errorf("expected at least one completed cycle, got %d", loop.Cycles())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestLoop_OutputErrorIsFatal(t *testing.T) {
	tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0)}}
	loop := newTestLoop(t, failingWriter{}, nil, tsm)

	err := loop.Run(context.Background(), strings.NewReader("\n\n"))
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("expected write error, got %v", err)
	}
	if tsm.calls != 1 {
		t.Errorf("expected loop to stop after the first failed write, got %d calls", tsm.calls)
	}
}

func TestLoop_TriggerLineTooLong(t *testing.T) {
	tsm := &fakeCheck{name: "tsm", records: []metrics.Record{record("tsm", 0)}}
	loop := newTestLoop(t, io.Discard, nil, tsm)

	err := loop.Run(context.Background(), strings.NewReader(strings.Repeat("x", maxTriggerLine+1)))
	if err == nil {
		t.Error("expected error for oversized trigger line")
	}
}

func TestNewLoop_NoChecks(t *testing.T) {
	if _, err := NewLoop(nil, io.Discard, nil); err == nil {
		t.Error("expected error for empty check list")
	}
}
