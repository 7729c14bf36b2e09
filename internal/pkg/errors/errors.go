package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMethodNotAllowed  = errors.New("method not allowed")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrInternal          = errors.New("internal error")
)

// QuotaExceededError reports an increment that would push the daily counter
// past the configured cap.
type QuotaExceededError struct {
	Requested int
	Cap       int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily read quota exceeded: requested %d read units, cap is %d", e.Requested, e.Cap)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrResourceExhausted
}

// InvalidArgument wraps ErrInvalidArgument with a caller-facing message.
func InvalidArgument(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
}
