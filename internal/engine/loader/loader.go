// Package loader brings a classifier up with a two-attempt policy: the
// accelerated execution path first, the CPU path once on failure, and a
// permanent Failed state after that. It never retries on its own.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/crimson-sun/triage/internal/engine/classifier"
)

// State is a step of the load protocol.
type State int

const (
	Unloaded State = iota
	LoadingAccelerated
	LoadingFallback
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case LoadingAccelerated:
		return "loading_accelerated"
	case LoadingFallback:
		return "loading_fallback"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transitions lists the legal moves of the protocol.
var transitions = map[State][]State{
	Unloaded:           {LoadingAccelerated, LoadingFallback, Failed},
	LoadingAccelerated: {Ready, LoadingFallback},
	LoadingFallback:    {Ready, Failed},
	Ready:              {Failed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var (
	// ErrModelNotFound is recorded when the model path does not exist.
	ErrModelNotFound = errors.New("loader: model not found")
	// ErrClosed is recorded once a Ready loader has been closed.
	ErrClosed = errors.New("loader: closed")
)

// Option configures a Loader.
type Option func(*Loader)

// WithAccelerated enables or disables the accelerated attempt. When disabled
// the loader goes straight to the CPU path. Default: enabled.
func WithAccelerated(enabled bool) Option {
	return func(l *Loader) { l.accelerated = enabled }
}

// WithLogger sets the logger for load outcomes. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// Loader owns the shared classifier handle and its load state.
type Loader struct {
	factory     classifier.Factory
	accelerated bool
	log         *slog.Logger

	once sync.Once

	mu     sync.RWMutex
	state  State
	device classifier.Device
	cls    classifier.Classifier
	err    error
}

// New creates a Loader in the Unloaded state.
func New(factory classifier.Factory, opts ...Option) *Loader {
	l := &Loader{
		factory:     factory,
		accelerated: true,
		log:         slog.Default(),
		state:       Unloaded,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load runs the load protocol against modelPath. Only the first call does
// any work; concurrent and later calls wait for it and return the recorded
// outcome. A nil error means the loader is Ready.
func (l *Loader) Load(ctx context.Context, modelPath string) error {
	l.once.Do(func() { l.load(ctx, modelPath) })
	return l.Err()
}

func (l *Loader) load(ctx context.Context, modelPath string) {
	if _, err := os.Stat(modelPath); err != nil {
		l.log.Error("model directory not found", "path", modelPath)
		l.fail(fmt.Errorf("%w: %s", ErrModelNotFound, modelPath))
		return
	}

	var accelErr error
	if l.accelerated {
		l.moveTo(LoadingAccelerated)
		cls, err := l.factory(ctx, classifier.Accelerated)
		if err == nil {
			l.ready(cls, classifier.Accelerated)
			return
		}
		accelErr = err
		l.log.Warn("accelerated load failed, falling back to cpu", "err", err)
	}

	l.moveTo(LoadingFallback)
	cls, err := l.factory(ctx, classifier.CPU)
	if err == nil {
		l.ready(cls, classifier.CPU)
		return
	}

	l.log.Error("could not load model, serving degraded", "err", err)
	l.fail(errors.Join(accelErr, err))
}

func (l *Loader) moveTo(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transition(s)
}

// transition panics on an illegal move; callers hold l.mu.
func (l *Loader) transition(s State) {
	if !canTransition(l.state, s) {
		panic(fmt.Sprintf("loader: illegal transition %s -> %s", l.state, s))
	}
	l.state = s
}

func (l *Loader) ready(cls classifier.Classifier, device classifier.Device) {
	l.mu.Lock()
	l.transition(Ready)
	l.cls = cls
	l.device = device
	l.mu.Unlock()
	l.log.Info("model loaded", "device", device.String())
}

func (l *Loader) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transition(Failed)
	l.err = err
}

// State returns the current load state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Device returns the device the classifier runs on. Meaningful only when
// Ready.
func (l *Loader) Device() classifier.Device {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.device
}

// Err returns the recorded load failure, or nil.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Classifier returns the loaded classifier. ok is false unless Ready.
func (l *Loader) Classifier() (classifier.Classifier, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != Ready {
		return nil, false
	}
	return l.cls, true
}

// Close releases the classifier, if one was loaded. A Ready loader moves to
// Failed with ErrClosed.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cls == nil {
		return nil
	}
	err := l.cls.Close()
	l.cls = nil
	if l.state == Ready {
		l.transition(Failed)
		l.err = ErrClosed
	}
	return err
}
