package classifier

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxWordRunes is the longest basic token WordPiece will try to split.
const maxWordRunes = 200

// wordPiece is an uncased BERT tokenizer backed by a vocab.txt file.
type wordPiece struct {
	vocab  *vocab
	maxLen int
}

func newWordPiece(vocabPath string, maxLen int) (*wordPiece, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}
	return &wordPiece{vocab: v, maxLen: maxLen}, nil
}

func (t *wordPiece) MaxLength() int { return t.maxLen }

func (t *wordPiece) PadID() int64 { return t.vocab.padID }

// Encode produces [CLS] tokens... [SEP], truncated to maxLen. The result is
// not padded.
func (t *wordPiece) Encode(text string) (Encoding, error) {
	tokens := t.wordpiece(basicTokenize(text))
	if limit := t.maxLen - 2; len(tokens) > limit {
		tokens = tokens[:limit]
	}

	n := len(tokens) + 2
	enc := Encoding{
		InputIDs:      make([]int64, n),
		AttentionMask: make([]int64, n),
		TokenTypeIDs:  make([]int64, n),
	}
	enc.InputIDs[0] = t.vocab.clsID
	for i, tok := range tokens {
		enc.InputIDs[i+1] = t.vocab.lookup(tok)
	}
	enc.InputIDs[n-1] = t.vocab.sepID
	for i := range enc.AttentionMask {
		enc.AttentionMask[i] = 1
	}
	return enc, nil
}

func (t *wordPiece) wordpiece(tokens []string) []string {
	var result []string
	for _, token := range tokens {
		if token == "" {
			continue
		}
		result = append(result, t.wordpieceToken(token)...)
	}
	return result
}

// wordpieceToken splits one basic token greedily, longest match first. A
// token with any unmatchable remainder becomes a single [UNK].
func (t *wordPiece) wordpieceToken(token string) []string {
	runes := []rune(token)
	if len(runes) > maxWordRunes {
		return []string{"[UNK]"}
	}

	var sub []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		for end > start {
			piece := string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if t.vocab.contains(piece) {
				sub = append(sub, piece)
				found = true
				break
			}
			end--
		}
		if !found {
			return []string{"[UNK]"}
		}
		start = end
	}
	return sub
}

// basicTokenize applies BERT's BasicTokenizer: clean, isolate CJK, lowercase,
// strip accents, then split on whitespace and punctuation.
func basicTokenize(text string) []string {
	text = cleanText(text)
	text = tokenizeChineseChars(text)
	text = strings.ToLower(text)
	text = stripAccents(text)

	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, splitOnPunctuation(word)...)
	}
	return tokens
}

func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == 0 || r == 0xFFFD || isControl(r) {
			continue
		}
		if isWhitespace(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripAccents drops combining marks after NFD decomposition.
func stripAccents(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func tokenizeChineseChars(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		if isChineseChar(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitOnPunctuation(word string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range word {
		if !isPunctuation(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
		tokens = append(tokens, string(r))
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

// isPunctuation treats all non-alphanumeric printable ASCII as punctuation,
// as BERT does, plus the Unicode P categories.
func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isChineseChar(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
