package matchmaking

import "errors"

var (
	// ErrAlreadyInQueue is returned by join when an active entry exists.
	ErrAlreadyInQueue = errors.New("user is already in the matchmaking queue")
	// ErrNotInQueue is returned by leave/status when no active entry exists.
	ErrNotInQueue = errors.New("user is not in the matchmaking queue")
	// ErrStaleEntry means a conditional commit lost a race with a concurrent
	// leave or a prior match. Absorbed by the scheduler, never surfaced.
	ErrStaleEntry = errors.New("queue entry is no longer waiting")
	// ErrValidation marks malformed join payloads or preferences.
	ErrValidation = errors.New("validation failed")
	// ErrUpstreamUnavailable means the profile lookup failed while resolving
	// a join request. The join is rejected rather than admitted with partial
	// data.
	ErrUpstreamUnavailable = errors.New("profile service unavailable")
)
