package app

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common application errors
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrNoResume          = errors.New("no resume to delete")
)

// FieldError is a single field-scoped validation message
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any remote call when input is rejected.
// Fields keeps the order in which the rules were declared.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation error: " + strings.Join(msgs, ", ")
}

// Field returns the message reported for field, if any
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

// NewValidationError builds a ValidationError with a single field message
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// RemoteError wraps a failure from a collaborator (row store, blob store, auth)
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a RemoteError unless it is nil or already classified
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var re *RemoteError
	if errors.As(err, &ve) || errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

// CompensationFailure reports a cleanup step that failed after another step
// had already failed. It is logged and never returned to callers.
type CompensationFailure struct {
	Step string
	Err  error
}

func (e *CompensationFailure) Error() string {
	return fmt.Sprintf("compensation for %q failed: %v", e.Step, e.Err)
}

func (e *CompensationFailure) Unwrap() error { return e.Err }
