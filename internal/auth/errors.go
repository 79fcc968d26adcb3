package auth

import "errors"

// Authentication failures. Every variant collapses to the same unauthorized
// response at the collaborator boundary; the distinction exists for
// diagnostics and audit only.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrExpiredToken       = errors.New("auth: token expired")
	ErrMalformedToken     = errors.New("auth: malformed token")
	ErrUnknownSubject     = errors.New("auth: unknown subject")
)

var (
	ErrNotFound         = errors.New("auth: not found")
	ErrAlreadyExists    = errors.New("auth: already exists")
	ErrInvalidInput     = errors.New("auth: invalid input")
	ErrDenied           = errors.New("auth: insufficient role")
	ErrStoreUnavailable = errors.New("auth: store unavailable")
)

// IsAuthFailure reports whether err is one of the authentication failure
// variants (as opposed to a conflict, a denial, or a store outage).
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrUnknownSubject)
}
