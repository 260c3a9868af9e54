// Package httpapi serves the to-do page routes and the small JSON API.
// Every request loads the whole collection, applies at most one mutation
// and saves it back through the service.
package httpapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/todolist/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server routes requests to the service.
type Server struct {
	svc     *service.Service
	logger  *log.Logger
	mux     *http.ServeMux
	handler http.Handler
}

// NewServer registers every route on a fresh mux. A nil logger means
// log.Default().
func NewServer(svc *service.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		svc:    svc,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /add", s.handleAdd)
	s.mux.HandleFunc("GET /complete/{id}", s.handleComplete)
	s.mux.HandleFunc("GET /uncomplete/{id}", s.handleUncomplete)
	s.mux.HandleFunc("GET /delete/{id}", s.handleDelete)

	s.mux.HandleFunc("GET /api/todos", s.handleListAPI)
	s.mux.HandleFunc("PUT /api/todo/{id}", s.handleUpdateAPI)

	s.handler = WithRequestID(Logging(s.logger)(s.mux))
	return s
}

// Handler returns the mux wrapped in request-id and access-log middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
