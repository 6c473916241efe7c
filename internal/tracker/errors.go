// ABOUTME: Error taxonomy for tracker service operations
// ABOUTME: Sentinel errors map to HTTP status codes at the API boundary

package tracker

import "errors"

// ErrUnauthorized is returned when a session token is missing or unknown,
// or when login credentials do not match.
var ErrUnauthorized = errors.New("not authenticated")

// ErrConflict is returned when registering a name that is already taken.
var ErrConflict = errors.New("user already exists")

// ErrValidation is returned for malformed input: bad pin, missing or invalid
// date, or a future-dated mutation. Wrapped with a descriptive message.
var ErrValidation = errors.New("invalid request")
