package apierr

import "fmt"

// Error is the wire-facing error shape: every failed request is reported
// to the caller as {code, message} with an HTTP status, never as a raw
// provider payload or stack trace.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Envelope is the JSON body of every failed request. Handlers serialize
// this shape directly; nothing else ever reaches the caller on error.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Envelope() Envelope {
	return Envelope{Code: e.Code, Message: e.Error()}
}
