package ports

import (
	"context"

	"github.com/affirmly/affirmation-api/internal/core/domain"
)

// AffirmationService is the in-memory affirmation cache as seen by the HTTP layer.
type AffirmationService interface {
	// Fetch calls the upstream once and appends the text on success.
	// Upstream failures are reported in the result, never as an error.
	Fetch(ctx context.Context) domain.FetchResult
	List() []string
	Clear()
	Count() int
	// Random returns a uniformly chosen stored affirmation, or false when empty.
	Random() (string, bool)
}
