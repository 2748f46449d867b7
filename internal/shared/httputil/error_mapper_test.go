package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errMissing = errors.New("menu not found")

type upstreamErr struct{ status int }

func (e upstreamErr) Error() string   { return fmt.Sprintf("upstream %d", e.status) }
func (e upstreamErr) HTTPStatus() int { return e.status }

func TestErrorMapper(t *testing.T) {
	t.Parallel()

	m := NewErrorMapper().
		WithMapping(errMissing, http.StatusNotFound, "").
		WithDefault(http.StatusTeapot, "odd")

	assert.Equal(t, HTTPErrorInfo{Status: http.StatusOK}, m.Map(nil))
	assert.Equal(t, HTTPErrorInfo{Status: http.StatusNotFound, Message: "load: menu not found"}, m.Map(fmt.Errorf("load: %w", errMissing)))
	assert.Equal(t, http.StatusGatewayTimeout, m.Map(context.DeadlineExceeded).Status)
	assert.Equal(t, HTTPErrorInfo{Status: http.StatusTooManyRequests, Message: "upstream 429"}, m.Map(upstreamErr{status: 429}))
	assert.Equal(t, http.StatusBadGateway, m.Map(upstreamErr{status: 503}).Status)
	assert.Equal(t, HTTPErrorInfo{Status: http.StatusTeapot, Message: "odd"}, m.Map(errors.New("x")))
}
