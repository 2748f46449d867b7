// Package apitest provides a fake REST backend for tests of the API groups and services.
package apitest

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"qrMenu/internal/platform/apiclient"
)

// Call is one request seen by the fake backend.
type Call struct {
	Method string
	Path   string
	Query  map[string]string
	Body   json.RawMessage
	// Files maps multipart field names to the uploaded file names.
	Files map[string][]string
}

// Decode unmarshals the JSON body of the call into out.
func (c Call) Decode(out any) error {
	return json.Unmarshal(c.Body, out)
}

// Reply is a canned response.
type Reply struct {
	Status      int
	Body        string
	ContentType string
}

// OK wraps data in a success envelope.
func OK(data string) Reply {
	if data == "" {
		return Reply{Status: http.StatusOK, Body: `{"success":true}`}
	}
	return Reply{Status: http.StatusOK, Body: `{"success":true,"data":` + data + `}`}
}

// Fail returns a success=false envelope with msg.
func Fail(status int, msg string) Reply {
	body, _ := json.Marshal(map[string]any{"success": false, "error": msg})
	return Reply{Status: status, Body: string(body)}
}

// Server is an httptest server answering "METHOD /path" routes relative to /api.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]Reply
	calls  []Call
}

// New starts a fake backend that is closed with the test.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]Reply)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers the reply for method and path, e.g. Handle("GET", "/menu/m1", OK(`{}`)).
func (s *Server) Handle(method, path string, reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = reply
}

// Client returns an apiclient pointed at the fake backend.
func (s *Server) Client() *apiclient.Client {
	return apiclient.New(apiclient.Config{BaseURL: s.URL + "/api"}, zap.NewNop())
}

// Calls returns every recorded call in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls matching method and path.
func (s *Server) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the most recent call, or a zero Call.
func (s *Server) Last() Call {
	calls := s.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	call := Call{Method: r.Method, Path: path, Query: map[string]string{}}
	for key := range r.URL.Query() {
		call.Query[key] = r.URL.Query().Get(key)
	}
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		call.Files = readFiles(r)
	} else if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		call.Body = raw
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	reply, ok := s.routes[r.Method+" "+path]
	s.mu.Unlock()

	if !ok {
		reply = Fail(http.StatusNotFound, "Route not found")
	}
	contentType := reply.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply.Body)
}

func readFiles(r *http.Request) map[string][]string {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil
	}
	out := map[string][]string{}
	for field, headers := range r.MultipartForm.File {
		for _, h := range headers {
			out[field] = append(out[field], h.Filename)
		}
	}
	return out
}
