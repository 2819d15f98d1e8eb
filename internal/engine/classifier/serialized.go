package classifier

import (
	"context"
	"sync"
)

// Serialized wraps c so that at most one Classify call runs at a time. Use it
// for classifiers that are not safe for concurrent inference.
func Serialized(c Classifier) Classifier {
	return &serialized{c: c}
}

type serialized struct {
	mu sync.Mutex
	c  Classifier
}

func (s *serialized) Classify(ctx context.Context, text string) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Classify(ctx, text)
}

func (s *serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Close()
}

// SerializedFactory wraps every classifier f produces with Serialized.
func SerializedFactory(f Factory) Factory {
	return func(ctx context.Context, device Device) (Classifier, error) {
		c, err := f(ctx, device)
		if err != nil {
			return nil, err
		}
		return Serialized(c), nil
	}
}
