package apiclient

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// Envelope is the uniform response body of the REST backend.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (e Envelope) serverMessage() string {
	if msg := strings.TrimSpace(e.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(e.Message)
}

func parseEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	if len(bytes.TrimSpace(body)) == 0 {
		return env, false
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env, false
	}
	return env, true
}

// statusError translates a non-2xx response. Rate limits and server errors use fixed
// messages; other rejections prefer the server's text.
func statusError(status int, body []byte) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: ErrRateLimited, Status: status, Message: MsgRateLimited}
	case status >= http.StatusInternalServerError:
		return &Error{Kind: ErrServer, Status: status, Message: MsgServer}
	}
	msg := statusFailedMessage(status)
	if env, ok := parseEnvelope(body); ok {
		if serverMsg := env.serverMessage(); serverMsg != "" {
			msg = serverMsg
		}
	}
	return &Error{Kind: ErrRemote, Status: status, Message: msg}
}

// unwrap extracts data from a 2xx envelope into out. A nil out skips decoding.
func unwrap(status int, body []byte, out any) error {
	env, ok := parseEnvelope(body)
	if !ok {
		return &Error{Kind: ErrDecode, Status: status, Message: MsgFailed}
	}
	if !env.Success {
		msg := env.serverMessage()
		if msg == "" {
			msg = MsgFailed
		}
		return &Error{Kind: ErrRemote, Status: status, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: ErrDecode, Status: status, Message: MsgFailed, Err: err}
	}
	return nil
}
