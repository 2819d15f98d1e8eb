package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/crimson-sun/triage/internal/model"
)

func baseExample() model.Example {
	return model.Example{
		Split:         "train",
		Row:           12,
		LabelID:       1,
		InputIDs:      []int64{101, 4, 5, 102, 0, 0},
		AttentionMask: []int64{1, 1, 1, 1, 0, 0},
	}
}

func TestFormatExampleMinimal(t *testing.T) {
	r := FormatExample(baseExample(), Minimal)

	if r.InputIDs != nil || r.AttentionMask != nil {
		t.Fatal("token arrays should be omitted at Minimal")
	}
	if r.Label != "Technical Issue" {
		t.Fatalf("expected label name for id 1, got %q", r.Label)
	}
	if r.Length != 4 {
		t.Fatalf("expected unpadded length 4, got %d", r.Length)
	}
	if r.Split != "train" || r.Row != 12 {
		t.Fatalf("identity not preserved: %+v", r)
	}
}

func TestFormatExampleFull(t *testing.T) {
	r := FormatExample(baseExample(), Full)

	if len(r.InputIDs) != 6 || len(r.AttentionMask) != 6 {
		t.Fatalf("expected padded arrays preserved at Full, got %d/%d", len(r.InputIDs), len(r.AttentionMask))
	}
}

func TestFormatExampleJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(FormatExample(baseExample(), Minimal))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "input_ids") {
		t.Fatalf("expected input_ids omitted, got %s", data)
	}
	if !strings.Contains(string(data), `"label_id":1`) {
		t.Fatalf("expected label_id in JSON, got %s", data)
	}
}

func TestParseVerbosity(t *testing.T) {
	if ParseVerbosity("minimal") != Minimal {
		t.Error("minimal")
	}
	for _, s := range []string{"full", "", "standard"} {
		if ParseVerbosity(s) != Full {
			t.Errorf("ParseVerbosity(%q) should be Full", s)
		}
	}
}
