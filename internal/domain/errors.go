package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformedResponse indicates a successful response whose body
	// could not be decoded.
	ErrMalformedResponse = errors.New("malformed response body")
	// ErrInvalid indicates a request the backend refuses to apply.
	ErrInvalid = errors.New("invalid input")
)

// ValidationError reports required fields missing from a draft. It is
// raised locally and never reaches the network.
type ValidationError struct {
	Phase   int
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("phase %d: nothing to save", e.Phase)
	}
	return fmt.Sprintf("phase %d: required fields missing: %s", e.Phase, strings.Join(e.Missing, ", "))
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
