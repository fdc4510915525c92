// Package catalogtest provides a fake bouquins server for tests.
package catalogtest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// Responder produces the status and body for one request.
type Responder func(r *http.Request) (status int, body string)

// Server serves canned pages on /books/, /authors/ and /series/ and
// records every request it receives.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	responders map[catalog.EntityType]Responder
	requests   []string
}

// NewServer starts a fake server that is closed when the test ends.
// Entities without a responder answer 404.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{responders: make(map[catalog.EntityType]Responder)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/{entity}/", s.serve)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Respond makes entity answer every request with status and body.
func (s *Server) Respond(entity catalog.EntityType, status int, body string) {
	s.RespondFunc(entity, func(*http.Request) (int, string) { return status, body })
}

// RespondFunc installs a per-request responder for entity.
func (s *Server) RespondFunc(entity catalog.EntityType, fn Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responders[entity] = fn
}

// Requests returns the request URIs received so far, in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestsFor returns the recorded URIs whose path targets entity.
func (s *Server) RequestsFor(entity catalog.EntityType) []string {
	prefix := entity.Path()
	var out []string
	for _, uri := range s.Requests() {
		if len(uri) >= len(prefix) && uri[:len(prefix)] == prefix {
			out = append(out, uri)
		}
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	fn := s.responders[catalog.EntityType(chi.URLParam(r, "entity"))]
	s.mu.Unlock()

	if r.Header.Get("Accept") != "application/json" {
		http.Error(w, "Invalid mime", http.StatusNotAcceptable)
		return
	}
	if fn == nil {
		http.NotFound(w, r)
		return
	}

	status, body := fn(r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
