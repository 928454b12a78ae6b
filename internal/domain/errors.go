package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation. Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// Pipeline error taxonomy. Every phase-local failure wraps exactly one of
// these sentinels so callers can classify it with errors.Is without parsing
// message strings. Handlers map the first two to client errors and the rest
// to retryable server errors.
var (
	// ErrInvalidContext means a required TripContext field is missing.
	ErrInvalidContext = errors.New("invalid trip context")

	// ErrNoDestination means no destination survived ranking and budget
	// filtering. The pipeline never falls back to a second-best choice.
	ErrNoDestination = errors.New("no destination found")

	// ErrEmptySearch means a booking search returned zero flights or zero
	// lodgings, so no combinations could be formed. This is deliberately
	// distinct from a successful search: callers must not read a "best"
	// combination that does not exist.
	ErrEmptySearch = errors.New("empty search result")

	// ErrInvalidDuration means the travel window is missing, inverted, or
	// shorter than one day.
	ErrInvalidDuration = errors.New("invalid trip duration")

	// ErrProvider means an upstream search call failed.
	ErrProvider = errors.New("provider failure")

	// ErrTimeout means a phase exceeded its deadline.
	ErrTimeout = errors.New("phase timeout")
)
