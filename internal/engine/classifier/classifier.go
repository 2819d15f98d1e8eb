package classifier

import (
	"context"
	"math"
	"sort"
)

// Result is one ranked label produced by a classifier.
type Result struct {
	Label string
	Score float64
}

// Classifier produces ranked label scores for a piece of text. Results are
// ordered by descending score.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Result, error)
	Close() error
}

// Factory builds a Classifier on the given device. The loader calls it once
// per load attempt.
type Factory func(ctx context.Context, device Device) (Classifier, error)

// Device selects the execution path used for inference.
type Device int

const (
	CPU Device = iota
	Accelerated
)

func (d Device) String() string {
	switch d {
	case Accelerated:
		return "accelerated"
	default:
		return "cpu"
	}
}

// Top returns the highest-ranked result. ok is false when results is empty.
func Top(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best, true
}

// Rank converts raw logits into softmax probabilities and returns one result
// per label, sorted by descending score. Ties keep label order.
func Rank(labels []string, logits []float32) []Result {
	probs := softmax(logits)
	results := make([]Result, len(probs))
	for i, p := range probs {
		results[i] = Result{Label: labelAt(labels, i), Score: p}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func labelAt(labels []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return defaultLabelName(i)
}

// softmax is numerically stabilised by subtracting the max logit.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := float64(logits[0])
	for _, l := range logits[1:] {
		if float64(l) > maxLogit {
			maxLogit = float64(l)
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(float64(l) - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
