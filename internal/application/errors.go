package application

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-event-sharing/pkg/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateTitle     = errors.New("an event with this title already exists")
)

// ValidationError carries field errors back to the form that produced them.
type ValidationError struct {
	Errors []validation.ValidationsError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+" "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func fieldError(field, tag, value, message string) *ValidationError {
	return &ValidationError{Errors: []validation.ValidationsError{{Field: field, Tag: tag, Value: value, Message: message}}}
}

// NewValidationError wraps binding errors produced by gin.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Errors: validation.ToList(err)}
}
