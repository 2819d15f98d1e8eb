package output

import (
	"github.com/crimson-sun/triage/internal/engine/taxonomy"
	"github.com/crimson-sun/triage/internal/model"
)

// Verbosity controls how much of an example a text sink writes.
type Verbosity int

const (
	// Minimal writes identity, label, and unpadded length only.
	Minimal Verbosity = iota
	// Full adds the padded input ids and attention mask.
	Full
)

// ParseVerbosity maps "minimal" to Minimal and anything else to Full.
func ParseVerbosity(s string) Verbosity {
	if s == "minimal" {
		return Minimal
	}
	return Full
}

// Record is the JSON shape of an example in text sinks.
type Record struct {
	Split         string  `json:"split"`
	Row           int     `json:"row"`
	LabelID       int     `json:"label_id"`
	Label         string  `json:"label"`
	Length        int     `json:"length"`
	InputIDs      []int64 `json:"input_ids,omitempty"`
	AttentionMask []int64 `json:"attention_mask,omitempty"`
}

// FormatExample returns the record for ex. At Minimal the token arrays are
// omitted.
func FormatExample(ex model.Example, v Verbosity) Record {
	label, _ := taxonomy.DefaultEncoding().Label(ex.LabelID)
	r := Record{
		Split:   ex.Split,
		Row:     ex.Row,
		LabelID: ex.LabelID,
		Label:   label,
		Length:  attended(ex.AttentionMask),
	}
	if v == Full {
		r.InputIDs = ex.InputIDs
		r.AttentionMask = ex.AttentionMask
	}
	return r
}

func attended(mask []int64) int {
	n := 0
	for _, m := range mask {
		if m != 0 {
			n++
		}
	}
	return n
}
