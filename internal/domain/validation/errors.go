package validation

import (
	"errors"
	"fmt"
)

// One sentinel per failure kind so callers can branch with errors.Is while
// the wrapped FieldError keeps the user-presentable detail.
var (
	ErrRequiredField     = errors.New("required field is missing")
	ErrTooLong           = errors.New("value exceeds the maximum length")
	ErrFormat            = errors.New("value has an invalid format")
	ErrSuspiciousContent = errors.New("value contains suspicious content")
	ErrBlockedPattern    = errors.New("value matches a blocked pattern")
	ErrTooLarge          = errors.New("payload exceeds the maximum size")
	ErrUnsupportedType   = errors.New("payload type is not supported")
)

// FieldError annotates a validation sentinel with the offending field and a
// short message safe to surface to the end user.
type FieldError struct {
	Field   string
	Message string
	kind    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.kind
}

func newFieldError(kind error, field, format string, args ...any) *FieldError {
	return &FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		kind:    kind,
	}
}
