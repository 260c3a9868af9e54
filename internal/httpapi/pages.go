package httpapi

import (
	"bytes"
	"context"
	"net/http"

	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.Page(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleAdd ignores an empty or missing title without touching storage.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("title")
	if title == "" {
		redirectHome(w, r)
		return
	}
	if _, _, err := s.svc.Add(r.Context(), title); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, func(ctx context.Context, id int) error {
		_, err := s.svc.Complete(ctx, id)
		return err
	})
}

func (s *Server) handleUncomplete(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, func(ctx context.Context, id int) error {
		_, err := s.svc.Uncomplete(ctx, id)
		return err
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, func(ctx context.Context, id int) error {
		_, err := s.svc.Delete(ctx, id)
		return err
	})
}

// mutateByID parses the path id, applies fn and redirects home. Unknown ids
// still redirect; only a malformed id is a 404.
func (s *Server) mutateByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, int) error) {
	id, err := todo.ParseID(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := fn(r.Context(), id); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"rid", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"err", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
