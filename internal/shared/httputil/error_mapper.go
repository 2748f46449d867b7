package httputil

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo is the status and message an error is reported with.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// StatusCoder is implemented by errors that carry the status of an upstream response, such as
// REST client failures.
type StatusCoder interface {
	HTTPStatus() int
}

type rule struct {
	target  error
	status  int
	message string
}

// ErrorMapper translates errors into HTTP responses. Rules are matched with errors.Is in the
// order they were added.
type ErrorMapper struct {
	rules    []rule
	fallback HTTPErrorInfo
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		rules: []rule{
			{target: context.DeadlineExceeded, status: http.StatusGatewayTimeout, message: "request timeout"},
			{target: context.Canceled, status: http.StatusServiceUnavailable, message: "request cancelled"},
		},
		fallback: HTTPErrorInfo{Status: http.StatusInternalServerError, Message: "internal server error"},
	}
}

// WithMapping reports err as status. An empty message keeps the error's own text.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.rules = append(m.rules, rule{target: err, status: status, message: message})
	return m
}

func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.fallback = HTTPErrorInfo{Status: status, Message: message}
	return m
}

// Map resolves err. Rules come first, then upstream statuses (5xx become 502), then the default.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}
	for _, r := range m.rules {
		if !errors.Is(err, r.target) {
			continue
		}
		if r.message == "" {
			return HTTPErrorInfo{Status: r.status, Message: err.Error()}
		}
		return HTTPErrorInfo{Status: r.status, Message: r.message}
	}

	var coder StatusCoder
	if errors.As(err, &coder) && coder.HTTPStatus() >= http.StatusBadRequest {
		status := coder.HTTPStatus()
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return HTTPErrorInfo{Status: status, Message: err.Error()}
	}
	return m.fallback
}
