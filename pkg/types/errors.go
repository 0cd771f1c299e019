package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that leaves the store or service packages wraps
// exactly one of these, so callers branch with errors.Is and never on a
// driver's error type.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("persistence unavailable")
)

// Error carries structured detail about a failed operation.
type Error struct {
	Kind    error
	Entity  string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NotFound(entity string, id any) error {
	return &Error{
		Kind:    ErrNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%s %v not found", entity, id),
	}
}

func Conflict(entity, message string) error {
	return &Error{Kind: ErrConflict, Entity: entity, Message: message}
}

func Invalid(field, message string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: message}
}

func Unavailable(err error) error {
	return &Error{Kind: ErrUnavailable, Message: "database unavailable", Err: err}
}

// Wrap attaches a kind to an arbitrary cause.
func Wrap(kind error, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// AsError returns the structured error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Kind reports which of the sentinel kinds err wraps, or nil.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrValidation, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
