package ports

import "context"

// AffirmationSource fetches a single affirmation from the upstream API.
//
// A nil error always comes with a non-empty text. Conditions where the
// upstream answered but had nothing usable wrap domain.ErrNoAffirmation;
// any other error is a transport failure.
type AffirmationSource interface {
	Fetch(ctx context.Context) (string, error)
}
