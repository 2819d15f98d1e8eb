package classifier

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMaxLength is the position limit of DistilBERT-class models, the
// length the training data is truncated and padded to.
const DefaultMaxLength = 512

// Encoding is the model input for one text. All slices have equal length.
type Encoding struct {
	InputIDs      []int64
	AttentionMask []int64
	TokenTypeIDs  []int64
}

// Len returns the sequence length.
func (e Encoding) Len() int {
	return len(e.InputIDs)
}

// Pad right-pads the encoding to n positions with padID and a zero attention
// mask. Encodings already n or longer are returned unchanged.
func (e Encoding) Pad(n int, padID int64) Encoding {
	if e.Len() >= n {
		return e
	}
	out := Encoding{
		InputIDs:      make([]int64, n),
		AttentionMask: make([]int64, n),
		TokenTypeIDs:  make([]int64, n),
	}
	copy(out.InputIDs, e.InputIDs)
	copy(out.AttentionMask, e.AttentionMask)
	copy(out.TokenTypeIDs, e.TokenTypeIDs)
	for i := e.Len(); i < n; i++ {
		out.InputIDs[i] = padID
	}
	return out
}

// Tokenizer turns text into model input ids, truncated to MaxLength.
type Tokenizer interface {
	Encode(text string) (Encoding, error)
	MaxLength() int
	PadID() int64
}

// LoadTokenizer picks the tokenizer for a model directory: tokenizer.json
// when present, vocab.txt otherwise.
func LoadTokenizer(dir string, maxLen int) (Tokenizer, error) {
	if maxLen <= 2 {
		return nil, fmt.Errorf("tokenizer: max length %d too small", maxLen)
	}
	hfPath := filepath.Join(dir, "tokenizer.json")
	if _, err := os.Stat(hfPath); err == nil {
		return newHFTokenizer(hfPath, maxLen)
	}
	return newWordPiece(filepath.Join(dir, "vocab.txt"), maxLen)
}

// truncate keeps the first maxLen-1 positions plus the final position, so a
// trailing [SEP] survives truncation.
func truncate(e Encoding, maxLen int) Encoding {
	if e.Len() <= maxLen {
		return e
	}
	cut := func(s []int64) []int64 {
		out := make([]int64, maxLen)
		copy(out, s[:maxLen-1])
		out[maxLen-1] = s[len(s)-1]
		return out
	}
	return Encoding{
		InputIDs:      cut(e.InputIDs),
		AttentionMask: cut(e.AttentionMask),
		TokenTypeIDs:  cut(e.TokenTypeIDs),
	}
}
