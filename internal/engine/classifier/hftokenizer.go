package classifier

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// hfTokenizer wraps a HuggingFace tokenizer.json, so the server tokenizes
// exactly as the exported model was trained.
type hfTokenizer struct {
	tk     *tokenizer.Tokenizer
	maxLen int
	padID  int64
}

func newHFTokenizer(path string, maxLen int) (*hfTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load %s: %w", path, err)
	}
	var padID int64
	if id, ok := tk.TokenToId("[PAD]"); ok {
		padID = int64(id)
	}
	return &hfTokenizer{tk: tk, maxLen: maxLen, padID: padID}, nil
}

func (t *hfTokenizer) MaxLength() int { return t.maxLen }

func (t *hfTokenizer) PadID() int64 { return t.padID }

func (t *hfTokenizer) Encode(text string) (Encoding, error) {
	en, err := t.tk.EncodeSingle(text, true)
	if err != nil {
		return Encoding{}, fmt.Errorf("tokenizer: encode: %w", err)
	}

	n := len(en.Ids)
	enc := Encoding{
		InputIDs:      make([]int64, n),
		AttentionMask: make([]int64, n),
		TokenTypeIDs:  make([]int64, n),
	}
	for i, id := range en.Ids {
		enc.InputIDs[i] = int64(id)
		enc.AttentionMask[i] = 1
		if i < len(en.AttentionMask) {
			enc.AttentionMask[i] = int64(en.AttentionMask[i])
		}
		if i < len(en.TypeIds) {
			enc.TokenTypeIDs[i] = int64(en.TypeIds[i])
		}
	}
	return truncate(enc, t.maxLen), nil
}
