package backend

import "github.com/pkg/errors"

var (
	// ErrUnauthorized is returned when the backend answers 401: the token
	// has been rejected server-side (revocation, password change, ban).
	// Callers treat this differently from every other failure - it is the
	// one error that forces a logout.
	ErrUnauthorized = errors.New("backend rejected the credentials")

	// ErrNotFound is returned when the backend answers 404.
	ErrNotFound = errors.New("not found")
)
