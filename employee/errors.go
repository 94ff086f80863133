package employee

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrConditionFailed is returned by a Store when a conditional write was
// rejected because its precondition did not hold.
var ErrConditionFailed = errors.New("conditional check failed")

// Kind classifies a client facing failure.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindAccessDenied
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a typed handler outcome whose Message is safe to return to the
// caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ValidationError reports a missing or malformed field.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound reports a missing record.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AccessDenied reports a record owned by someone other than the caller.
func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// Conflict reports a create on an id that already exists.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthorized reports a request without caller identity.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
