package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the outermost boundary can translate it once.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a typed domain failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target with an
// empty Msg matches every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Kind-wide sentinels for errors.Is.
var (
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

var (
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = &Error{Kind: KindNotFound, Msg: "user not found"}
	// ErrItemNotFound indicates that the item does not exist.
	ErrItemNotFound = &Error{Kind: KindNotFound, Msg: "item not found"}
	// ErrInvalidCredentials is returned for an unknown user or a wrong password alike.
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Msg: "invalid username or password"}
	// ErrInvalidToken covers missing, malformed, tampered and expired bearer tokens.
	ErrInvalidToken = &Error{Kind: KindForbidden, Msg: "invalid or expired token"}
)

// BadRequest builds a KindBadRequest error with a human-readable reason.
func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden builds a KindForbidden error.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
