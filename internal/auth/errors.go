package auth

import (
	"errors"
	"fmt"
)

// Token and header failures. Token problems are never broken down further
// for clients (signature vs expiry would leak verification details).
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingAuth  = errors.New("missing or invalid authorization header")
)

// ValidationError reports the first credential field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
