package account

import "errors"

// Stable error taxonomy surfaced by the façade. Handlers map these onto
// HTTP statuses; anything else is an upstream failure.
var (
	// ErrValidation marks missing or malformed client input.
	ErrValidation = errors.New("validation error")
	// ErrAuthFailed covers bad credentials, wrong challenge answers,
	// exhausted attempts and dead sessions.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrNotFound means no record exists for the user.
	ErrNotFound = errors.New("user not found")
	// ErrConflict marks duplicate registration.
	ErrConflict = errors.New("user already registered")
	// ErrUpstream wraps provider or store transport failures. Not retried
	// here; retry policy belongs to the caller.
	ErrUpstream = errors.New("upstream failure")
)
