// Package fakeprovider serves canned responses on the paths of every
// supported text-generation API and records what it received.
package fakeprovider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Route paths, relative to the server URL.
const (
	OpenAIPath      = "/v1/chat/completions"
	AnthropicPath   = "/v1/messages"
	HuggingFacePath = "/models"
	NovitaPath      = "/v3/openai/chat/completions"
	OpenRouterPath  = "/api/v1/chat/completions"
)

// Reply is the response served for a route.
type Reply struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Request is one recorded call.
type Request struct {
	Path   string
	Header http.Header
	Body   []byte
}

// Decode unmarshals the recorded body into v.
func (r Request) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []Request
}

// New starts a server answering every route with a successful body whose
// text is "A generated prompt". The server closes when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{replies: map[string]Reply{
		OpenAIPath:      {Status: http.StatusOK, Body: ChatBody("A generated prompt")},
		AnthropicPath:   {Status: http.StatusOK, Body: AnthropicBody("A generated prompt")},
		HuggingFacePath: {Status: http.StatusOK, Body: HuggingFaceBody("A generated prompt")},
		NovitaPath:      {Status: http.StatusOK, Body: ChatBody("A generated prompt")},
		OpenRouterPath:  {Status: http.StatusOK, Body: ChatBody("A generated prompt")},
	}}

	r := chi.NewRouter()
	r.Post(OpenAIPath, s.handle(OpenAIPath))
	r.Post(AnthropicPath, s.handle(AnthropicPath))
	r.Post(HuggingFacePath+"/*", s.handle(HuggingFacePath))
	r.Post(NovitaPath, s.handle(NovitaPath))
	r.Post(OpenRouterPath, s.handle(OpenRouterPath))

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the absolute URL of a route.
func (s *Server) Endpoint(route string) string {
	return s.URL + route
}

// SetReply replaces the response served for route.
func (s *Server) SetReply(route string, reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[route] = reply
}

// Requests returns a copy of every recorded call, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count is the number of calls received so far.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent call.
func (s *Server) Last() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) handle(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		reply := s.replies[route]
		s.mu.Unlock()

		if reply.Delay > 0 {
			time.Sleep(reply.Delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.Status)
		_, _ = io.WriteString(w, reply.Body)
	}
}

// ChatBody renders an OpenAI-compatible completion.
func ChatBody(content string) string {
	return mustJSON(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

// AnthropicBody renders a messages API response.
func AnthropicBody(text string) string {
	return mustJSON(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
}

// HuggingFaceBody renders the array form of an inference response.
func HuggingFaceBody(text string) string {
	return mustJSON([]map[string]string{{"generated_text": text}})
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(raw)
}
