package triage

import "github.com/crimson-sun/triage/internal/engine/taxonomy"

// Unmapped is returned by Remap for categories outside the fixed map.
const Unmapped = taxonomy.Unmapped

// Category is one fine-grained source category and its coarse label.
type Category struct {
	Name  string // e.g. "card_payment_fee_charged"
	Label string // e.g. "Billing Question"
}

// Labels returns the coarse labels in encoding order (id 0 first).
func Labels() []string {
	return taxonomy.Labels()
}

// Remap returns the coarse label for a fine-grained category, or Unmapped.
func Remap(category string) string {
	return taxonomy.Remap(category)
}

// Categories returns every known fine-grained category with its label,
// sorted by name.
func Categories() []Category {
	names := taxonomy.Categories()
	out := make([]Category, len(names))
	for i, n := range names {
		out[i] = Category{Name: n, Label: taxonomy.Remap(n)}
	}
	return out
}
