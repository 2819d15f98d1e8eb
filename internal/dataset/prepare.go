package dataset

import (
	"fmt"

	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/taxonomy"
	"github.com/crimson-sun/triage/internal/model"
)

// Preparer remaps and tokenizes raw rows. Every example it produces is padded
// to the tokenizer's max length.
type Preparer struct {
	tok classifier.Tokenizer
}

// NewPreparer returns a Preparer using tok.
func NewPreparer(tok classifier.Tokenizer) *Preparer {
	return &Preparer{tok: tok}
}

// MaxLength is the length of every prepared sequence.
func (p *Preparer) MaxLength() int {
	return p.tok.MaxLength()
}

// Prepare turns one raw row into a training example. Rows whose category is
// outside the fixed map fail with a *taxonomy.DataQualityError.
func (p *Preparer) Prepare(raw model.RawExample) (model.Example, error) {
	id, err := taxonomy.RemapID(raw.Category)
	if err != nil {
		return model.Example{}, err
	}
	enc, err := p.tok.Encode(raw.Text)
	if err != nil {
		return model.Example{}, fmt.Errorf("dataset: %s row %d: %w", raw.Split, raw.Row, err)
	}
	enc = enc.Pad(p.tok.MaxLength(), p.tok.PadID())
	return model.Example{
		Split:         raw.Split,
		Row:           raw.Row,
		LabelID:       id,
		InputIDs:      enc.InputIDs,
		AttentionMask: enc.AttentionMask,
	}, nil
}
