package rex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the client.
type ErrorKind string

const (
	// KindAuthentication covers invalid credentials and any failure of the login call.
	KindAuthentication ErrorKind = "AuthenticationException"
	// KindRequest covers non-2xx responses, API error envelopes and transport failures.
	KindRequest ErrorKind = "RequestException"
)

// Error is the single error type returned by the client.
type Error struct {
	Kind       ErrorKind
	Op         string // "<Service>/<method>"
	StatusCode int    // HTTP status, 0 when the request never completed
	Type       string // error type reported by the API, if any
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("rex %s: %s (status %d): %s", e.Op, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("rex %s: %s: %s", e.Op, e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newRequestError(op string, status int, remoteType, message string, cause error) *Error {
	return &Error{
		Kind:       KindRequest,
		Op:         op,
		StatusCode: status,
		Type:       remoteType,
		Message:    message,
		Err:        cause,
	}
}

// authError re-tags a failure of the login call as an authentication error,
// keeping status and remote details of the cause when it is a request error.
func authError(op string, cause error) *Error {
	e := &Error{Kind: KindAuthentication, Op: op, Err: cause}
	var reqErr *Error
	if errors.As(cause, &reqErr) {
		e.StatusCode = reqErr.StatusCode
		e.Type = reqErr.Type
		e.Message = reqErr.Message
	}
	return e
}

// KindOf returns the kind of a client error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAuthentication reports whether err is an AuthenticationException.
func IsAuthentication(err error) bool {
	return KindOf(err) == KindAuthentication
}

// IsRequest reports whether err is a RequestException.
func IsRequest(err error) bool {
	return KindOf(err) == KindRequest
}

// StatusCode extracts the HTTP status carried by a client error.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
