package client

import "encoding/json"

// Envelope is the uniform response wrapper every endpoint returns.
//
// Exactly one of Data/Error is meaningfully populated. A non-success response
// always carries an error code on a correct server; Error is defaulted to the
// zero code only as a decoding fallback, never relied upon for control flow.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo is the error member of a non-success envelope.
type ErrorInfo struct {
	Code int `json:"code"`
}

// DecodeData unmarshals the data member into v.
func (e *Envelope) DecodeData(v any) error {
	return json.Unmarshal(e.Data, v)
}

func (e *Envelope) errorCode() int {
	if e.Error == nil {
		return 0
	}
	return e.Error.Code
}

// loginData is the success payload of the login call.
type loginData struct {
	SID       string `json:"sid"`
	SynoToken string `json:"synotoken"`
	DeviceID  string `json:"device_id"`
}

// discoveredEndpoint mirrors the discovery call's per-endpoint object.
type discoveredEndpoint struct {
	Path       string `json:"path"`
	MinVersion int    `json:"minVersion"`
	MaxVersion int    `json:"maxVersion"`
}
