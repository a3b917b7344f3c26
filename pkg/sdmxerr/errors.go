// Package sdmxerr defines the error kinds surfaced by the query builder and the
// service facade.
//
// ClientError and Invalid are produced synchronously while describing a request
// and are never retriable. NotFound, Unavailable and Internal are produced at
// the transport boundary when a registry answers (or fails to answer) a call.
package sdmxerr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	// KindClientError marks a request whose shape is invalid regardless of the
	// protocol version.
	KindClientError Kind = iota + 1
	// KindInvalid marks a well-shaped request that cannot be expressed at the
	// requested version, or a value of the wrong semantic type.
	KindInvalid
	KindNotFound
	// KindUnavailable marks transport failures and 503s. It is the only
	// retriable kind.
	KindUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindClientError:
		return "ClientError"
	case KindInvalid:
		return "Invalid"
	case KindNotFound:
		return "NotFound"
	case KindUnavailable:
		return "Unavailable"
	case KindInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the single error type of this module. Field names the offending
// request field when one is known; Status carries the HTTP status when the
// error was mapped from a registry response.
type Error struct {
	Kind        Kind
	Title       string
	Description string
	Field       string
	Status      int
	Err         error
}

var (
	ErrClientError = &Error{Kind: KindClientError}
	ErrInvalid     = &Error{Kind: KindInvalid}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrUnavailable = &Error{Kind: KindUnavailable}
	ErrInternal    = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if t := strings.TrimSpace(e.Title); t != "" {
		b.WriteString(": ")
		b.WriteString(t)
	}
	if d := strings.TrimSpace(e.Description); d != "" {
		b.WriteString(": ")
		b.WriteString(d)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error of the same kind, so the package-level sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Retriable reports whether repeating the unchanged call may succeed.
func (e *Error) Retriable() bool {
	return e != nil && e.Kind == KindUnavailable
}

func newError(kind Kind, title, format string, args ...any) *Error {
	desc := format
	if len(args) > 0 {
		desc = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Title: title, Description: desc}
}

func ClientError(title, format string, args ...any) *Error {
	return newError(KindClientError, title, format, args...)
}

func Invalid(title, format string, args ...any) *Error {
	return newError(KindInvalid, title, format, args...)
}

func NotFound(title, format string, args ...any) *Error {
	return newError(KindNotFound, title, format, args...)
}

func Unavailable(title, format string, args ...any) *Error {
	return newError(KindUnavailable, title, format, args...)
}

func Internal(title, format string, args ...any) *Error {
	return newError(KindInternal, title, format, args...)
}

// WithField records the offending field and returns the same error.
func (e *Error) WithField(field string) *Error {
	if e == nil {
		return nil
	}
	e.Field = field
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	if e == nil {
		return nil
	}
	e.Err = err
	return e
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind, true
	}
	return 0, false
}

func IsClientError(err error) bool { return errors.Is(err, ErrClientError) }
func IsInvalid(err error) bool     { return errors.Is(err, ErrInvalid) }
func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }

// IsRetriable reports whether err carries a retriable kind anywhere in its chain.
func IsRetriable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retriable()
	}
	return false
}
