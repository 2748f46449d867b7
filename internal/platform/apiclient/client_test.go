package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type widget struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api", Timeout: timeout}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestDoUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/restaurants", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"_id":"r1","name":"Bistro"}]}`)
	}, 0)

	got, err := Do[[]widget](context.Background(), client, http.MethodGet, "/restaurants")
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "r1", Name: "Bistro"}}, got)
}

func TestCacheBusterOnlyOnGet(t *testing.T) {
	t.Parallel()

	seen := make(chan *http.Request, 2)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen <- r
		writeJSON(w, http.StatusOK, `{"success":true}`)
	}, 0)
	client.now = func() time.Time { return time.UnixMilli(1700000000123) }

	require.NoError(t, client.Exec(context.Background(), http.MethodGet, "/menu", WithQuery("restaurantId", "r1"), WithQuery("empty", "")))
	require.NoError(t, client.Exec(context.Background(), http.MethodPost, "/menu", WithBody(map[string]string{"name": "Lunch"})))

	get := <-seen
	assert.Equal(t, "1700000000123", get.URL.Query().Get("_t"))
	assert.Equal(t, "r1", get.URL.Query().Get("restaurantId"))
	assert.False(t, get.URL.Query().Has("empty"))
	assert.NotEmpty(t, get.Header.Get("X-Request-ID"))

	post := <-seen
	assert.False(t, post.URL.Query().Has("_t"))
	assert.Contains(t, post.Header.Get("Content-Type"), "application/json")
}

func TestStatusTranslation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"success":false,"error":"slow down"}`, ErrRateLimited, MsgRateLimited},
		{"server", http.StatusBadGateway, `oops`, ErrServer, MsgServer},
		{"not found with error", http.StatusNotFound, `{"success":false,"error":"Menu not found"}`, ErrRemote, "Menu not found"},
		{"bad request with message", http.StatusBadRequest, `{"success":false,"message":"Name is required"}`, ErrRemote, "Name is required"},
		{"no body", http.StatusConflict, ``, ErrRemote, "Request failed with status code 409"},
		{"envelope failure", http.StatusOK, `{"success":false,"error":"Slug already taken"}`, ErrRemote, "Slug already taken"},
		{"envelope failure without text", http.StatusOK, `{"success":false}`, ErrRemote, MsgFailed},
		{"not json", http.StatusOK, `<html>`, ErrDecode, MsgFailed},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			}, 0)

			_, err := Do[widget](context.Background(), client, http.MethodPost, "/restaurants")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.message, err.Error())

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.HTTPStatus())
		})
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := Do[widget](context.Background(), client, http.MethodGet, "/health")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, MsgTimeout, err.Error())
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	client := New(Config{BaseURL: base}, zap.NewNop())

	err := client.Exec(context.Background(), http.MethodDelete, "/menu/m1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotEmpty(t, err.Error())
}

func TestMultipartUpload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		files := r.MultipartForm.File["images"]
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Filename)
		}
		payload, _ := json.Marshal(map[string]any{"success": true, "data": names})
		writeJSON(w, http.StatusOK, string(payload))
	}, 0)

	got, err := Do[[]string](context.Background(), client, http.MethodPost, "/upload/images",
		WithFile("images", "a.png", strings.NewReader("a")),
		WithFile("images", "b.png", strings.NewReader("b")),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, got)
}

func TestRawReturnsBytes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("table"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}, 0)

	bin, err := client.Raw(context.Background(), "/public/qr/demo", WithQuery("table", "7"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", bin.ContentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, bin.Data)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"status":"ok","timestamp":"2024-01-01T00:00:00Z"}}`)
	}, 0)

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
}
