package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var fixedNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)

func newTestServer(t *testing.T, st store.Store) (*Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	svc := service.New(st, service.WithClock(func() time.Time { return fixedNow }))
	return NewServer(svc, logger), &logs
}

func do(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func load(t *testing.T, st store.Store) []todo.Task {
	t.Helper()
	tasks, err := st.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return tasks
}

func assertRedirectHome(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("Location = %q, want /", loc)
	}
}

func TestAddRedirectsAndStores(t *testing.T) {
	st := store.NewMemoryStore()
	srv, _ := newTestServer(t, st)

	form := url.Values{"title": {"Buy milk"}}.Encode()
	assertRedirectHome(t, do(t, srv, http.MethodPost, "/add", form))

	tasks := load(t, st)
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].ID != 1 {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestAddEmptyTitleDoesNotSave(t *testing.T) {
	st := store.NewMemoryStore()
	srv, _ := newTestServer(t, st)

	assertRedirectHome(t, do(t, srv, http.MethodPost, "/add", "title="))
	assertRedirectHome(t, do(t, srv, http.MethodPost, "/add", ""))
	if st.Saves() != 0 {
		t.Fatalf("Saves = %d, want 0", st.Saves())
	}
}

func TestCompleteUncompleteDelete(t *testing.T) {
	st := store.NewMemoryStore(
		todo.Task{ID: 1, Title: "a"},
		todo.Task{ID: 2, Title: "b"},
		todo.Task{ID: 2, Title: "b again"},
	)
	srv, _ := newTestServer(t, st)

	assertRedirectHome(t, do(t, srv, http.MethodGet, "/complete/1", ""))
	tasks := load(t, st)
	if !tasks[0].Completed || tasks[0].CompletedAt == nil || !tasks[0].CompletedAt.Equal(fixedNow) {
		t.Fatalf("after complete: %+v", tasks[0])
	}

	assertRedirectHome(t, do(t, srv, http.MethodGet, "/uncomplete/1", ""))
	tasks = load(t, st)
	if tasks[0].Completed || tasks[0].CompletedAt != nil {
		t.Fatalf("after uncomplete: %+v", tasks[0])
	}

	assertRedirectHome(t, do(t, srv, http.MethodGet, "/delete/2", ""))
	tasks = load(t, st)
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Fatalf("after delete: %+v", tasks)
	}
}

func TestUnknownIDRedirectsAndSaves(t *testing.T) {
	st := store.NewMemoryStore(todo.Task{ID: 1, Title: "a"})
	srv, _ := newTestServer(t, st)

	for _, path := range []string{"/complete/99", "/uncomplete/99", "/delete/99"} {
		assertRedirectHome(t, do(t, srv, http.MethodGet, path, ""))
	}
	if st.Saves() != 3 {
		t.Fatalf("Saves = %d, want 3", st.Saves())
	}
}

func TestNonNumericIDIs404(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemoryStore())
	for _, path := range []string{"/complete/abc", "/delete/-1", "/uncomplete/1.5", "/complete/"} {
		if w := do(t, srv, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
			t.Errorf("%s status=%d, want 404", path, w.Code)
		}
	}
	if w := do(t, srv, http.MethodPut, "/api/todo/x", `{}`); w.Code != http.StatusNotFound {
		t.Errorf("PUT /api/todo/x status=%d, want 404", w.Code)
	}
}

func TestIndexShowsTodayCount(t *testing.T) {
	today := date.At(fixedNow.Add(-time.Minute))
	lastYear := date.At(fixedNow.AddDate(-1, 0, 0))
	st := store.NewMemoryStore(
		todo.Task{ID: 1, Title: "done today", Completed: true, CompletedAt: &today},
		todo.Task{ID: 2, Title: "done last year", Completed: true, CompletedAt: &lastYear},
		todo.Task{ID: 3, Title: "<script>open</script>"},
	)
	srv, _ := newTestServer(t, st)

	w := do(t, srv, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<strong id="today-completed">1</strong>`) {
		t.Errorf("today counter missing:\n%s", body)
	}
	if !strings.Contains(body, "2026-10-19") {
		t.Error("current date missing")
	}
	if strings.Contains(body, "<script>open") {
		t.Error("title not escaped")
	}
	if !strings.Contains(body, `href="/uncomplete/1"`) || !strings.Contains(body, `href="/complete/3"`) {
		t.Error("action links missing")
	}
}

func TestListAPI(t *testing.T) {
	created := date.At(fixedNow)
	st := store.NewMemoryStore(todo.Task{ID: 1, Title: "Café", CreatedAt: created})
	srv, _ := newTestServer(t, st)

	w := do(t, srv, http.MethodGet, "/api/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["title"] != "Café" || got[0]["completed_at"] != nil ||
		got[0]["created_at"] != "2026-10-19 10:00:00" {
		t.Fatalf("body = %s", w.Body.String())
	}

	empty, _ := newTestServer(t, store.NewMemoryStore())
	w = do(t, empty, http.MethodGet, "/api/todos", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list body = %q", w.Body.String())
	}
}

func TestUpdateAPI(t *testing.T) {
	tests := []struct {
		name      string
		start     bool
		body      string
		wantCode  int
		wantDone  bool
		wantStamp bool
	}{
		{"complete", false, `{"completed": true}`, http.StatusOK, true, true},
		{"reopen", true, `{"completed": false}`, http.StatusOK, false, false},
		{"empty body keeps open", false, ``, http.StatusOK, false, false},
		{"missing field keeps done", true, `{}`, http.StatusOK, true, true},
		{"null means false", true, `{"completed": null}`, http.StatusOK, false, false},
		{"not json", false, `completed=true`, http.StatusBadRequest, false, false},
		{"array", false, `[true]`, http.StatusBadRequest, false, false},
		{"wrong type", false, `{"completed": "yes"}`, http.StatusBadRequest, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := todo.Task{ID: 1, Title: "a"}
			if tt.start {
				stamp := date.At(fixedNow.Add(-time.Hour))
				task.Completed, task.CompletedAt = true, &stamp
			}
			st := store.NewMemoryStore(task)
			srv, _ := newTestServer(t, st)

			w := do(t, srv, http.MethodPut, "/api/todo/1", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if tt.wantCode == http.StatusOK && strings.TrimSpace(w.Body.String()) != `{"success":true}` {
				t.Fatalf("body = %s", w.Body.String())
			}
			got := load(t, st)[0]
			if got.Completed != tt.wantDone {
				t.Fatalf("Completed = %v, want %v", got.Completed, tt.wantDone)
			}
			if tt.wantCode == http.StatusOK && tt.wantStamp && !got.CompletedAt.Equal(fixedNow) {
				t.Fatalf("CompletedAt = %v, want %v", got.CompletedAt, fixedNow)
			}
			if !tt.wantStamp && got.CompletedAt != nil && tt.wantCode == http.StatusOK {
				t.Fatalf("CompletedAt = %v, want nil", got.CompletedAt)
			}
		})
	}
}

func TestUpdateAPIUnknownIDSucceeds(t *testing.T) {
	st := store.NewMemoryStore()
	srv, _ := newTestServer(t, st)
	w := do(t, srv, http.MethodPut, "/api/todo/7", `{"completed": true}`)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"success":true}` {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if st.Saves() != 1 {
		t.Fatalf("Saves = %d, want 1", st.Saves())
	}
}

func TestUpdateAPIUnknownIDIgnoresBadBody(t *testing.T) {
	for _, body := range []string{`{"completed": "yes"}`, `completed=true`} {
		t.Run(body, func(t *testing.T) {
			st := store.NewMemoryStore(todo.Task{ID: 1, Title: "a"})
			srv, _ := newTestServer(t, st)

			w := do(t, srv, http.MethodPut, "/api/todo/999", body)
			if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"success":true}` {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if st.Saves() != 1 {
				t.Fatalf("Saves = %d, want 1", st.Saves())
			}
			if got := load(t, st)[0]; got.Completed {
				t.Fatalf("task 1 changed: %+v", got)
			}
		})
	}
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) ([]todo.Task, error) { return []todo.Task{}, nil }
func (brokenStore) Save(context.Context, []todo.Task) error {
	return errors.New("read-only file system")
}

func TestStorageFailureIs500(t *testing.T) {
	srv, logs := newTestServer(t, brokenStore{})

	if w := do(t, srv, http.MethodGet, "/complete/1", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("page status=%d, want 500", w.Code)
	}
	w := do(t, srv, http.MethodPut, "/api/todo/1", `{"completed": true}`)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("api status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(logs.String(), "read-only file system") {
		t.Errorf("error not logged: %s", logs.String())
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	svc := service.New(brokenStore{}, service.WithClock(func() time.Time { return fixedNow }))
	srv := NewServer(svc, nil)

	if w := do(t, srv, http.MethodGet, "/complete/1", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("page status=%d, want 500", w.Code)
	}
	if w := do(t, srv.Handler(), http.MethodPut, "/api/todo/1", `{"completed": true}`); w.Code != http.StatusInternalServerError {
		t.Errorf("api status=%d, want 500", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemoryStore())
	if w := do(t, srv, http.MethodGet, "/add", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /add status=%d, want 405", w.Code)
	}
	if w := do(t, srv, http.MethodPost, "/api/todo/1", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/todo/1 status=%d, want 405", w.Code)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	srv, logs := newTestServer(t, store.NewMemoryStore())

	w := do(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz status=%d body=%q", w.Code, w.Body.String())
	}
	rid := w.Header().Get(RequestIDHeader)
	if len(rid) != 36 {
		t.Fatalf("generated request id %q is not a UUID", rid)
	}
	if !strings.Contains(logs.String(), rid) {
		t.Errorf("access log missing request id: %s", logs.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestFileBackedRoundTrip(t *testing.T) {
	st := store.NewFileStore(filepath.Join(t.TempDir(), "todos.json"))
	srv, _ := newTestServer(t, st)

	do(t, srv, http.MethodPost, "/add", "title=first")
	do(t, srv, http.MethodPost, "/add", "title=second")
	do(t, srv, http.MethodGet, "/complete/2", "")

	w := do(t, srv, http.MethodGet, "/api/todos", "")
	var got []todo.Task
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Completed || !got[1].Completed {
		t.Fatalf("tasks = %+v", got)
	}
}
