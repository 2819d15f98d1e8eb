package triage

import (
	"log/slog"

	"github.com/crimson-sun/triage/internal/engine/classifier"
)

type options struct {
	modelDir    string
	accelerated bool
	serialize   bool
	logger      *slog.Logger
	cls         []classifier.Option
}

// Option configures a Triage instance.
type Option func(*options)

// WithModelDir sets the directory containing the exported model.
// Expects: model.onnx, config.json, and tokenizer.json or vocab.txt.
// Default: "models".
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithAccelerated enables or disables the CUDA attempt before CPU.
// Default: enabled.
func WithAccelerated(enabled bool) Option {
	return func(o *options) {
		o.accelerated = enabled
	}
}

// WithDeviceID selects the CUDA device. Default: 0.
func WithDeviceID(id int) Option {
	return func(o *options) {
		o.cls = append(o.cls, classifier.WithDeviceID(id))
	}
}

// WithLibraryPath sets the ONNX Runtime shared library path.
func WithLibraryPath(path string) Option {
	return func(o *options) {
		o.cls = append(o.cls, classifier.WithLibraryPath(path))
	}
}

// WithMaxLength sets the tokenizer truncation length. Default: 512.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.cls = append(o.cls, classifier.WithMaxLength(n))
	}
}

// WithSerializedInference allows only one inference at a time.
func WithSerializedInference() Option {
	return func(o *options) {
		o.serialize = true
	}
}

// WithLogger sets the logger for load outcomes and inference failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		modelDir:    "models",
		accelerated: true,
		logger:      slog.Default(),
	}
}
