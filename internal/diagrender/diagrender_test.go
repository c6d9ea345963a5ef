package diagrender

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew_NonFileWriterNeverColors(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	if r.color {
		t.Fatalf("a plain buffer should never get color")
	}
}

func TestFailure_ReportsRunIDAndError(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.Failure("run-123", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "run-123") || !strings.Contains(out, "boom") {
		t.Fatalf("Failure output = %q, want it to contain run id and error", out)
	}
}

func TestSummary_ReportsCounts(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.Summary("run-1", 1234, 56, 7)

	out := buf.String()
	if !strings.Contains(out, "1,234") {
		t.Fatalf("Summary output = %q, want humanized label count", out)
	}
	if !strings.Contains(out, "56") || !strings.Contains(out, "7") {
		t.Fatalf("Summary output = %q, want constraint and dynamic counts", out)
	}
}

func TestCountDynamic(t *testing.T) {
	if n := CountDynamic([]bool{true, false, true, true}); n != 3 {
		t.Fatalf("CountDynamic = %d, want 3", n)
	}
	if n := CountDynamic(nil); n != 0 {
		t.Fatalf("CountDynamic(nil) = %d, want 0", n)
	}
}
