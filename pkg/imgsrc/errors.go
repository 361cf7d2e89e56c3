package imgsrc

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies an imgsrc failure.
type ErrorKind int

const (
	KindMalformedResponse ErrorKind = iota + 1 // XML missing required structure
	KindProtocolMismatch                       // proto attribute differs from ProtocolVersion
	KindProtocol                               // server omitted a mandatory payload element
	KindLogin                                  // credentials rejected during login
	KindAlreadyLoggedIn                        // login called twice on one client
	KindCreate                                 // album creation refused
	KindNotFound                               // album lookup miss
	KindNotLoggedIn                            // operation requires a bound storage host
	KindUpload                                 // upload failed after exhausting attempts
	KindTransport                              // network failure or non-2xx status
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindMalformedResponse:
		return "malformed response"
	case KindProtocolMismatch:
		return "protocol mismatch"
	case KindProtocol:
		return "protocol error"
	case KindLogin:
		return "login failed"
	case KindAlreadyLoggedIn:
		return "already logged in"
	case KindCreate:
		return "create failed"
	case KindNotFound:
		return "not found"
	case KindNotLoggedIn:
		return "not logged in"
	case KindUpload:
		return "upload failed"
	case KindTransport:
		return "transport error"
	default:
		return "unknown"
	}
}

// Error represents a failure reported by the imgsrc client.
//
// Message carries the server's error text verbatim when one was sent.
// Body holds the raw response for malformed-response diagnostics.
// Use errors.Is with the Err* sentinels to test the kind:
//
//	if errors.Is(err, imgsrc.ErrLogin) {
//	    // bad credentials or protocol drift
//	}
type Error struct {
	Kind    ErrorKind
	Message string
	Body    []byte
	Err     error
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := "imgsrc: " + e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
//
// This allows errors.Is() to match against the sentinel values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Retryable returns true if repeating the same request may succeed.
//
// Anything the server or network produced is retryable, including malformed
// and mismatched envelopes, since the service emits those transiently under
// load. Account and session guards (login, create, not found, not logged in)
// are not. Upload retries exactly the attempts for which this returns true.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport, KindUpload, KindMalformedResponse, KindProtocolMismatch, KindProtocol:
		return true
	default:
		return false
	}
}

// Sentinel errors for errors.Is checks.
var (
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrProtocolMismatch  = &Error{Kind: KindProtocolMismatch}
	ErrProtocol          = &Error{Kind: KindProtocol}
	ErrLogin             = &Error{Kind: KindLogin}
	ErrAlreadyLoggedIn   = &Error{Kind: KindAlreadyLoggedIn}
	ErrCreate            = &Error{Kind: KindCreate}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrNotLoggedIn       = &Error{Kind: KindNotLoggedIn}
	ErrUpload            = &Error{Kind: KindUpload}
	ErrTransport         = &Error{Kind: KindTransport}
)

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// isRetryable determines if an upload attempt failure should be retried.
//
// Context errors are never retried; *Error values defer to Retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return true
}
