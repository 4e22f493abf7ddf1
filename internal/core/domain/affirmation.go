package domain

import "errors"

// FetchOutcome is the result class of a single upstream fetch attempt.
type FetchOutcome string

const (
	OutcomeFetched        FetchOutcome = "fetched"
	OutcomeNoData         FetchOutcome = "no_data"
	OutcomeTransportError FetchOutcome = "transport_error"
)

// ErrNoAffirmation is wrapped by upstream sources when the upstream answered
// but produced nothing storable (bad status, malformed body, empty field).
var ErrNoAffirmation = errors.New("upstream returned no affirmation")

// FetchResult is what AffirmationCache.Fetch hands back to callers.
// Affirmation is set only for OutcomeFetched; Message only for OutcomeTransportError.
type FetchResult struct {
	Outcome     FetchOutcome
	Affirmation string
	Message     string
}

// OK reports whether the fetch stored a new affirmation.
func (r FetchResult) OK() bool {
	return r.Outcome == OutcomeFetched
}

func Fetched(text string) FetchResult {
	return FetchResult{Outcome: OutcomeFetched, Affirmation: text}
}

func NoData() FetchResult {
	return FetchResult{Outcome: OutcomeNoData}
}

func TransportError(msg string) FetchResult {
	return FetchResult{Outcome: OutcomeTransportError, Message: msg}
}
