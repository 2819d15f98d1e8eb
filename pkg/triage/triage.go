package triage

import (
	"context"
	"fmt"

	"github.com/crimson-sun/triage/internal/engine"
	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/loader"
)

// Errors returned by Classify. Match with errors.Is.
var (
	ErrEmptyText      = engine.ErrBadRequest
	ErrNotLoaded      = engine.ErrServiceUnavailable
	ErrClassification = engine.ErrInference
)

// Prediction is the top-ranked label for one ticket.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Triage is a loaded ticket classifier. Safe for concurrent use.
type Triage struct {
	loader *loader.Loader
	engine *engine.Engine
}

// New loads the model, trying the accelerated path before CPU. This is an
// expensive operation; create once, reuse across requests.
func New(opts ...Option) (*Triage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	factory := classifier.NewFactory(o.modelDir, o.cls...)
	if o.serialize {
		factory = classifier.SerializedFactory(factory)
	}
	l := loader.New(factory,
		loader.WithAccelerated(o.accelerated),
		loader.WithLogger(o.logger),
	)
	if err := l.Load(context.Background(), o.modelDir); err != nil {
		return nil, fmt.Errorf("triage: %w", err)
	}
	return &Triage{loader: l, engine: engine.New(l, o.logger)}, nil
}

// Classify returns the top label for text.
func (t *Triage) Classify(ctx context.Context, text string) (Prediction, error) {
	p, err := t.engine.Classify(ctx, text)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Label: p.Label, Score: p.Score}, nil
}

// ClassifyBatch classifies each text in order. It stops at the first error.
func (t *Triage) ClassifyBatch(ctx context.Context, texts []string) ([]Prediction, error) {
	out := make([]Prediction, len(texts))
	for i, text := range texts {
		p, err := t.Classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("triage: text %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Device reports the execution path the model runs on: "accelerated" or
// "cpu".
func (t *Triage) Device() string {
	return t.loader.Device().String()
}

// Close releases model resources. Classify returns ErrNotLoaded afterwards.
func (t *Triage) Close() error {
	return t.loader.Close()
}
