package output

import (
	"context"

	"github.com/crimson-sun/triage/internal/model"
)

// Output defines the interface for prepared example destinations.
type Output interface {
	Write(ctx context.Context, ex model.Example) error
	Close() error
}
