package common

import (
	"errors"
)

// Error kinds. Match them with errors.Is.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// A single subscriber could not take an event.
	ErrTransport = errors.New("delivery failed")
)

// Machine-checkable codes sent to clients next to the human message.
const (
	CodeOK              = ""
	CodeValidation      = "validation"
	CodeConflict        = "conflict"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeStorage         = "storage"
)

// Error is a service outcome carrying its kind, a client-facing message and
// an optional underlying cause.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

// NewError returns an *Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an *Error of the given kind that also wraps cause.
func Wrap(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Message returns the client-facing text of err. Errors that are not
// *Error values never leak their text and yield fallback instead.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}

// Code maps err onto one of the Code* constants.
func Code(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrorValidation):
		return CodeValidation
	case errors.Is(err, ErrorAlreadyExists):
		return CodeConflict
	case errors.Is(err, ErrorUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return CodeUnauthenticated
	case errors.Is(err, ErrorForbidden):
		return CodeForbidden
	case errors.Is(err, ErrorNotFound):
		return CodeNotFound
	default:
		return CodeStorage
	}
}
