package importer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies import failures.
type ErrorKind string

const (
	KindInvalidURL        ErrorKind = "invalid_url"
	KindUnsupportedScheme ErrorKind = "unsupported_scheme"
	KindBlockedHost       ErrorKind = "blocked_host"
	KindTimeout           ErrorKind = "timeout"
	KindUpstream          ErrorKind = "upstream_error"
	KindNotHTML           ErrorKind = "not_html"
	KindFetchFailed       ErrorKind = "fetch_failed"
)

// Error is returned by Import for every failure. Callers match it with
// errors.Is against the sentinels below or read Kind directly.
type Error struct {
	Kind ErrorKind
	// StatusCode is the upstream HTTP status for KindUpstream.
	StatusCode int
	Message    string
	Err        error
}

// Sentinels for errors.Is matching. Only Kind is compared.
var (
	ErrInvalidURL        = &Error{Kind: KindInvalidURL}
	ErrUnsupportedScheme = &Error{Kind: KindUnsupportedScheme}
	ErrBlockedHost       = &Error{Kind: KindBlockedHost}
	ErrTimeout           = &Error{Kind: KindTimeout}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrNotHTML           = &Error{Kind: KindNotHTML}
	ErrFetchFailed       = &Error{Kind: KindFetchFailed}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind. A timeout is also a fetch failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindFetchFailed && e.Kind == KindTimeout
}

// KindOf returns the kind of an import error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
