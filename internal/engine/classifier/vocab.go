package classifier

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// vocab is a WordPiece vocabulary; a token's id is its 0-indexed line number
// in vocab.txt.
type vocab struct {
	tokenToID map[string]int64
	size      int

	padID int64
	unkID int64
	clsID int64
	sepID int64
}

func loadVocab(path string) (*vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()

	v, err := parseVocab(f)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s: %w", path, err)
	}
	return v, nil
}

func parseVocab(r io.Reader) (*vocab, error) {
	tokenToID := make(map[string]int64, 32000)
	var n int64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tokenToID[scanner.Text()] = n
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("empty vocabulary")
	}

	v := &vocab{tokenToID: tokenToID, size: int(n)}
	specials := []struct {
		name string
		dest *int64
	}{
		{"[PAD]", &v.padID},
		{"[UNK]", &v.unkID},
		{"[CLS]", &v.clsID},
		{"[SEP]", &v.sepID},
	}
	for _, s := range specials {
		id, ok := tokenToID[s.name]
		if !ok {
			return nil, fmt.Errorf("missing special token %s", s.name)
		}
		*s.dest = id
	}
	return v, nil
}

// lookup returns the token id, or the [UNK] id.
func (v *vocab) lookup(token string) int64 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return v.unkID
}

func (v *vocab) contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}
