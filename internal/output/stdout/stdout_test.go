package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/crimson-sun/triage/internal/model"
	"github.com/crimson-sun/triage/internal/output"
)

func testExample() model.Example {
	return model.Example{
		Split:         "test",
		Row:           3,
		LabelID:       0,
		InputIDs:      []int64{101, 7, 102, 0},
		AttentionMask: []int64{1, 1, 1, 0},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Full, false)
		out.Write(context.Background(), testExample())
	})

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line of NDJSON, got %d lines:\n%s", len(lines), result)
	}

	var rec output.Record
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.Label != "Billing Question" {
		t.Errorf("label = %q, want Billing Question", rec.Label)
	}
	if len(rec.InputIDs) != 4 {
		t.Errorf("expected 4 input ids at Full, got %d", len(rec.InputIDs))
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Minimal, true)
		out.Write(context.Background(), testExample())
	})

	if !strings.Contains(result, "\n  \"split\"") {
		t.Fatalf("expected indented output, got:\n%s", result)
	}
	if strings.Contains(result, "input_ids") {
		t.Fatalf("expected token arrays omitted at Minimal, got:\n%s", result)
	}
}

func TestCloseIsNoop(t *testing.T) {
	if err := New(output.Full, false).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
