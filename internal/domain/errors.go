package domain

import "errors"

// Sentinel errors for the service and repository layers - use with errors.Is().
// Call sites wrap them with context via fmt.Errorf("%w: ...").
var (
	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the target resource is absent, or (on reads)
	// owned by somebody else. Ownership mismatches on reads deliberately
	// collapse to not-found so callers cannot probe for other users' data.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller does not own the target resource
	// on a mutating operation. Unlike reads, deletes surface this
	// distinctly from not-found.
	ErrForbidden = errors.New("forbidden")

	// ErrStoreUnavailable indicates the persistent store is unreachable.
	// Reads degrade to empty results instead; only writes surface this.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUpstream indicates the LLM backend failed or returned garbage.
	ErrUpstream = errors.New("upstream failure")
)
