// Package naserrors defines the typed error surface of the client. Every
// failure a caller can observe is one of a closed set of kinds, always carrying
// the numeric server code when one exists; raw transport errors never escape
// unwrapped.
package naserrors

import "fmt"

// Kind identifies which class of failure occurred.
type Kind string

const (
	// KindConnection covers transport-level failures (DNS, TLS, timeouts) and
	// missing handshake material during connection setup.
	KindConnection Kind = "connection"
	// KindLogin is a non-success code from the login call.
	KindLogin Kind = "login"
	// KindLogout is a non-success code from the logout call.
	KindLogout Kind = "logout"
	// KindAPI is a non-success code from any other endpoint.
	KindAPI Kind = "api"
	// KindDecode means the response body was not a well-formed envelope.
	KindDecode Kind = "decode"
)

// Error is a structured, programmatically inspectable failure.
type Error struct {
	Kind Kind
	API  string // Endpoint name, when known.
	Code int    // Numeric server code; 0 for transport and decode failures.
	Err  error  // Underlying cause, when any.
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := describe(e.API, e.Code)
	switch {
	case e.Code != 0 && msg != "":
		return fmt.Sprintf("%s %s: code %d (%s)", e.Kind, e.API, e.Code, msg)
	case e.Code != 0:
		return fmt.Sprintf("%s %s: code %d", e.Kind, e.API, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.API, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.API)
}

func (e *Error) Unwrap() error { return e.Err }

// Connection wraps a transport-level failure.
func Connection(api string, err error) error {
	return &Error{Kind: KindConnection, API: api, Err: err}
}

// Decode wraps an envelope decoding failure.
func Decode(api string, err error) error {
	return &Error{Kind: KindDecode, API: api, Err: err}
}

// Login builds the typed error for a non-success login code.
func Login(api string, code int) error {
	return &Error{Kind: KindLogin, API: api, Code: code}
}

// Logout builds the typed error for a non-success logout code.
func Logout(api string, code int) error {
	return &Error{Kind: KindLogout, API: api, Code: code}
}

// FromCode maps a non-success code from api to a typed error using the
// per-family code tables. Unknown codes fall back to a generic KindAPI error
// that still carries the code and endpoint name.
func FromCode(api string, code int) error {
	return &Error{Kind: KindAPI, API: api, Code: code}
}
