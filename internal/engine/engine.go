package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/model"
)

// Error taxonomy of the classification service. Each maps to one HTTP
// response in the server package.
var (
	ErrBadRequest         = errors.New("engine: missing text")
	ErrServiceUnavailable = errors.New("engine: model not loaded")
	ErrInference          = errors.New("engine: classification failed")
)

// Source hands out the shared classifier. ok is false while no classifier is
// ready; *loader.Loader implements it.
type Source interface {
	Classifier() (classifier.Classifier, bool)
}

// Static is a Source that always returns the same classifier. A nil
// classifier behaves as not loaded.
type Static struct {
	C classifier.Classifier
}

func (s Static) Classifier() (classifier.Classifier, bool) {
	return s.C, s.C != nil
}

// Engine is the classification service: text in, top-1 prediction out.
// It holds no per-request state and is safe for concurrent use when the
// underlying classifier is.
type Engine struct {
	source Source
	log    *slog.Logger
}

// New creates an Engine reading its classifier from src.
func New(src Source, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{source: src, log: log}
}

// Classify returns the highest-ranked label for text.
//
// Readiness is checked before the input, so an unloaded model fails every
// call with ErrServiceUnavailable. Empty text fails with ErrBadRequest.
// Classifier errors and panics are logged and reported as ErrInference
// without the underlying cause.
func (e *Engine) Classify(ctx context.Context, text string) (model.Prediction, error) {
	cls, ok := e.source.Classifier()
	if !ok {
		return model.Prediction{}, ErrServiceUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return model.Prediction{}, ErrBadRequest
	}

	results, err := e.run(ctx, cls, text)
	if err != nil {
		e.log.ErrorContext(ctx, "classification failed", "err", err)
		return model.Prediction{}, ErrInference
	}

	top, ok := classifier.Top(results)
	if !ok {
		e.log.ErrorContext(ctx, "classification failed", "err", "classifier returned no results")
		return model.Prediction{}, ErrInference
	}
	return model.Prediction{Label: top.Label, Score: clamp01(top.Score)}, nil
}

// run isolates the classifier call so a panic inside it becomes an error.
func (e *Engine) run(ctx context.Context, cls classifier.Classifier, text string) (results []classifier.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return cls.Classify(ctx, text)
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
