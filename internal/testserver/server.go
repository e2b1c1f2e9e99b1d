// Package testserver runs an in-process stand-in for the S.EE v1 API so the
// client, dispatcher and service can be exercised without the network.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/sdotee/desktop/internal/domain"
)

// APIPrefix is the path the stub serves the API under
const APIPrefix = "/api/v1"

// Default domains handed out by the stub, matching the public service
var (
	LinkDomains = []string{"s.ee", "ss.ee"}
	TextDomains = []string{"p.s.ee"}
	FileDomains = []string{"i.s.ee"}
)

type failure struct {
	status  int
	message string
}

type upload struct {
	response domain.FileUploadResponse
	content  []byte
}

// Server is an in-memory S.EE stub on top of httptest
type Server struct {
	apiKey string
	srv    *httptest.Server

	mu      sync.Mutex
	links   map[string]domain.ShortenRequest
	texts   map[string]domain.CreateTextRequest
	files   map[string]upload
	fail    *failure
	counter int

	requests  atomic.Int64
	lastReqID atomic.Value
}

// New starts a stub accepting apiKey as its only bearer token
func New(apiKey string) *Server {
	s := &Server{
		apiKey: apiKey,
		links:  make(map[string]domain.ShortenRequest),
		texts:  make(map[string]domain.CreateTextRequest),
		files:  make(map[string]upload),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+APIPrefix+"/domains", s.domains(LinkDomains))
	mux.HandleFunc("GET "+APIPrefix+"/text/domains", s.domains(TextDomains))
	mux.HandleFunc("GET "+APIPrefix+"/file/domains", s.domains(FileDomains))
	mux.HandleFunc("POST "+APIPrefix+"/shorten", s.shorten)
	mux.HandleFunc("DELETE "+APIPrefix+"/shorten", s.deleteLink)
	mux.HandleFunc("POST "+APIPrefix+"/text", s.createText)
	mux.HandleFunc("DELETE "+APIPrefix+"/text", s.deleteText)
	mux.HandleFunc("POST "+APIPrefix+"/file/upload", s.uploadFile)
	mux.HandleFunc("GET "+APIPrefix+"/file/delete/{key}", s.deleteFile)

	s.srv = httptest.NewServer(s.middleware(mux))
	return s
}

// URL is the base URL clients should be configured with
func (s *Server) URL() string {
	return s.srv.URL + APIPrefix
}

// Close shuts the stub down
func (s *Server) Close() {
	s.srv.Close()
}

// FailWith makes every following request fail with status and message until
// Recover is called
func (s *Server) FailWith(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, message: message}
}

// Recover undoes FailWith
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = nil
}

// Requests returns the number of requests received so far
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// LastRequestID returns the X-Request-ID of the latest request
func (s *Server) LastRequestID() string {
	id, _ := s.lastReqID.Load().(string)
	return id
}

// HasLink reports whether domain/slug is currently shortened
func (s *Server) HasLink(domainName, slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[key(domainName, slug)]
	return ok
}

// HasText reports whether domain/slug is currently published
func (s *Server) HasText(domainName, slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.texts[key(domainName, slug)]
	return ok
}

// FileContent returns the bytes uploaded under hash
func (s *Server) FileContent(hash string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.files[hash]
	return u.content, ok
}

func key(domainName, slug string) string {
	return domainName + "/" + slug
}

// middleware counts requests, checks the bearer token and applies FailWith
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastReqID.Store(r.Header.Get("X-Request-ID"))

		if r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		s.mu.Lock()
		fail := s.fail
		s.mu.Unlock()
		if fail != nil {
			writeError(w, fail.status, fail.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}
