// Package apperr defines the error kinds services report to the HTTP layer.
package apperr

import "errors"

// Kinds. Handlers map these to status codes with errors.Is.
var (
	ErrInvalidInput    = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden")
	ErrStaleSession    = errors.New("stale session")
)

// Error pairs a kind with the message shown to API clients.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Unwrap() error { return e.kind }

// Cause returns the underlying detail error, if any.
func (e *Error) Cause() error { return e.cause }

// New builds an Error of the given kind.
func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Wrap builds an Error of the given kind that carries a detail error.
func Wrap(kind error, msg string, cause error) error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func Invalid(msg string) error         { return New(ErrInvalidInput, msg) }
func NotFound(msg string) error        { return New(ErrNotFound, msg) }
func Conflict(msg string) error        { return New(ErrConflict, msg) }
func Unauthenticated(msg string) error { return New(ErrUnauthenticated, msg) }
func Forbidden(msg string) error       { return New(ErrForbidden, msg) }
func StaleSession(msg string) error    { return New(ErrStaleSession, msg) }

// BadRequest is the generic message for malformed input.
const BadRequest = "Bad Request"
