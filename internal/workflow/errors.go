package workflow

import (
	"errors"
	"fmt"
)

// Error kinds. Every workflow failure unwraps to exactly one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation error")
)

// Error carries a kind plus a caller-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Conflictf(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func Forbiddenf(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func InvalidTransitionf(format string, args ...any) error {
	return newError(ErrInvalidTransition, format, args...)
}

func Validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// KindOf returns the kind of err, or nil when err is not a workflow error.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrForbidden, ErrInvalidTransition, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
