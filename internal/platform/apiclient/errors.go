package apiclient

import (
	"errors"
	"fmt"
)

// Error kinds, usable with errors.Is on any *Error.
var (
	ErrTimeout     = errors.New("apiclient: timeout")
	ErrRateLimited = errors.New("apiclient: rate limited")
	ErrServer      = errors.New("apiclient: server error")
	ErrRemote      = errors.New("apiclient: request rejected")
	ErrTransport   = errors.New("apiclient: transport failure")
	ErrDecode      = errors.New("apiclient: malformed response")
)

const (
	MsgRateLimited = "Too many requests. Please try again later."
	MsgServer      = "Server error. Please try again later."
	MsgTimeout     = "Request timeout. Please check your connection."
	MsgFailed      = "Request failed"
)

// Error is the single error type returned by the client. Error() is the user-facing message.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgFailed
}

func (e *Error) UserMessage() string { return e.Error() }

// HTTPStatus returns the response status, 0 when no response was received.
func (e *Error) HTTPStatus() int { return e.Status }

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Detail describes the error for logs.
func (e *Error) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// statusFailedMessage is used when a rejected response carries no text of its own.
func statusFailedMessage(status int) string {
	return fmt.Sprintf("Request failed with status code %d", status)
}
