package taxonomy

import (
	"errors"
	"fmt"
	"sort"
)

// Coarse labels, in encoding order.
const (
	Billing   = "Billing Question"
	Technical = "Technical Issue"
	General   = "General Inquiry"
)

// Unmapped is returned by Remap for categories outside the fixed map.
// It is never a valid coarse label and has no encoding.
const Unmapped = "Unmapped"

// ErrUnmapped is matched by every *DataQualityError.
var ErrUnmapped = errors.New("taxonomy: unmapped category")

// DataQualityError reports a fine-grained category that the fixed map does
// not cover.
type DataQualityError struct {
	Category string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("taxonomy: unmapped category %q", e.Category)
}

func (e *DataQualityError) Is(target error) bool {
	return target == ErrUnmapped
}

// coarseLabels fixes the id of each coarse label: the slice index.
var coarseLabels = []string{Billing, Technical, General}

// Encoding is a bijection between coarse label names and dense ids 0..N-1.
type Encoding struct {
	labels []string
	ids    map[string]int
}

func newEncoding(labels []string) *Encoding {
	ids := make(map[string]int, len(labels))
	for i, l := range labels {
		ids[l] = i
	}
	return &Encoding{labels: labels, ids: ids}
}

var defaultEncoding = newEncoding(coarseLabels)

// DefaultEncoding returns the process-wide label encoding.
func DefaultEncoding() *Encoding {
	return defaultEncoding
}

// ID returns the dense id for a coarse label (label2id).
func (e *Encoding) ID(label string) (int, bool) {
	id, ok := e.ids[label]
	return id, ok
}

// Label returns the coarse label for an id (id2label).
func (e *Encoding) Label(id int) (string, bool) {
	if id < 0 || id >= len(e.labels) {
		return "", false
	}
	return e.labels[id], true
}

// Len returns the number of coarse labels.
func (e *Encoding) Len() int {
	return len(e.labels)
}

// Labels returns the coarse labels in id order.
func (e *Encoding) Labels() []string {
	out := make([]string, len(e.labels))
	copy(out, e.labels)
	return out
}

// Labels returns the coarse labels in encoding order.
func Labels() []string {
	return defaultEncoding.Labels()
}

// Remap returns the coarse label for a fine-grained category, or Unmapped.
func Remap(category string) string {
	if label, ok := defaultCategories[category]; ok {
		return label
	}
	return Unmapped
}

// RemapID remaps a category and encodes the result. Categories outside the
// map return a *DataQualityError.
func RemapID(category string) (int, error) {
	label := Remap(category)
	id, ok := defaultEncoding.ID(label)
	if !ok {
		return -1, &DataQualityError{Category: category}
	}
	return id, nil
}

// Known reports whether the category is in the fixed map.
func Known(category string) bool {
	_, ok := defaultCategories[category]
	return ok
}

// Categories returns every known fine-grained category, sorted.
func Categories() []string {
	out := make([]string, 0, len(defaultCategories))
	for c := range defaultCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
