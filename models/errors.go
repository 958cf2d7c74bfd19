package models

import "errors"

// Error taxonomy surfaced by the core. Handlers map these to HTTP statuses
// with errors.Is; everything else is treated as an internal error.
var (
	// ErrValidation covers malformed input: bad answers payloads, a
	// questions/solutions length mismatch at definition time, and so on.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when an exercise or attempt that must exist
	// does not.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned for transitions the state machine does not
	// allow, e.g. submitting before starting or starting an unpublished
	// exercise.
	ErrInvalidState = errors.New("invalid state")

	// ErrPermission is returned when the acting user does not own the
	// resource. Authorization happens upstream; this is defense-in-depth.
	ErrPermission = errors.New("permission denied")

	// ErrDataUnavailable means the attempt set backing an aggregation could
	// not be read. Callers must be able to tell "no data" (valid zeros) from
	// "could not read data" (this error).
	ErrDataUnavailable = errors.New("data unavailable")
)
