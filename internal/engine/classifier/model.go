package classifier

import (
	"context"
	"fmt"
	"path/filepath"
)

// Model directory layout, as produced by exporting the fine-tuned model.
const (
	ModelFile  = "model.onnx"
	ConfigFile = "config.json"
)

// Option configures an ONNXClassifier.
type Option func(*options)

type options struct {
	libPath  string
	deviceID int
	maxLen   int
	threads  int
}

// WithLibraryPath sets the ONNX Runtime shared library path. Default:
// libonnxruntime.so inside the model directory.
func WithLibraryPath(path string) Option {
	return func(o *options) { o.libPath = path }
}

// WithDeviceID selects the CUDA device used on the accelerated path.
func WithDeviceID(id int) Option {
	return func(o *options) { o.deviceID = id }
}

// WithMaxLength sets the tokenizer truncation length. Default: 512.
func WithMaxLength(n int) Option {
	return func(o *options) { o.maxLen = n }
}

// WithThreads sets the intra-op thread count. 0 leaves the runtime default.
func WithThreads(n int) Option {
	return func(o *options) { o.threads = n }
}

// ONNXClassifier runs a fine-tuned sequence classification model with ONNX
// Runtime. It is safe for concurrent use: the tokenizer and label table are
// read-only and the runtime allows concurrent Run calls on one session.
type ONNXClassifier struct {
	session *onnxSession
	tok     Tokenizer
	labels  []string
	device  Device
}

// New loads the model in dir on the given device.
func New(dir string, device Device, opts ...Option) (*ONNXClassifier, error) {
	o := options{maxLen: DefaultMaxLength}
	for _, opt := range opts {
		opt(&o)
	}
	if o.libPath == "" {
		o.libPath = filepath.Join(dir, "libonnxruntime.so")
	}

	tok, err := LoadTokenizer(dir, o.maxLen)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	sess, err := newONNXSession(filepath.Join(dir, ModelFile), sessionOptions{
		libPath:  o.libPath,
		device:   device,
		deviceID: o.deviceID,
		threads:  o.threads,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	labels, err := loadLabels(filepath.Join(dir, ConfigFile), int(sess.numLabels))
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("classifier: %w", err)
	}

	return &ONNXClassifier{session: sess, tok: tok, labels: labels, device: device}, nil
}

// NewFactory returns a Factory that loads the model in dir.
func NewFactory(dir string, opts ...Option) Factory {
	return func(_ context.Context, device Device) (Classifier, error) {
		return New(dir, device, opts...)
	}
}

// Device reports the execution path the session was created on.
func (c *ONNXClassifier) Device() Device {
	return c.device
}

// Labels returns the class names in output order.
func (c *ONNXClassifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Classify tokenizes text, runs the model, and returns every label ranked by
// softmax probability.
func (c *ONNXClassifier) Classify(ctx context.Context, text string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	enc, err := c.tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	logits, err := c.session.infer(enc, int64(len(c.labels)))
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return Rank(c.labels, logits), nil
}

// Close releases ONNX Runtime resources.
func (c *ONNXClassifier) Close() error {
	if c.session != nil {
		return c.session.close()
	}
	return nil
}
