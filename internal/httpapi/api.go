package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

func (s *Server) handleListAPI(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.List(r.Context())
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// handleUpdateAPI sets completed from the body (absent keeps the current
// value) and answers success whether or not the id matched. The body is
// only checked when a task matches; for an unknown id it is ignored.
func (s *Server) handleUpdateAPI(w http.ResponseWriter, r *http.Request) {
	id, err := todo.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	completed, msg := decodeUpdate(r)
	if msg != "" {
		_, err = s.svc.Get(r.Context(), id)
		switch ce, ok := clierr.As(err); {
		case err == nil:
			writeError(w, http.StatusBadRequest, msg)
			return
		case !ok || ce.Code != clierr.TaskNotFound:
			s.apiError(w, r, err)
			return
		}
		completed = nil
	}

	if _, err := s.svc.SetCompleted(r.Context(), id, completed); err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeUpdate reads {"completed": bool}. An empty body counts as {} and a
// null completed as false. The second result is a client error message.
func decodeUpdate(r *http.Request) (*bool, string) {
	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		return nil, err.Error()
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, "invalid JSON: body must be an object"
	}
	raw, ok := fields["completed"]
	if !ok {
		return nil, ""
	}
	if string(raw) == "null" {
		done := false
		return &done, ""
	}
	var done bool
	if err := json.Unmarshal(raw, &done); err != nil {
		return nil, "completed must be a boolean"
	}
	return &done, ""
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"rid", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"err", err,
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}
