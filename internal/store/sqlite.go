package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database in WAL mode. The whole
// table is replaced on Save; the position column keeps insertion order.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS todos (
		position     INTEGER PRIMARY KEY,
		id           INTEGER NOT NULL,
		title        TEXT NOT NULL,
		completed    INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		completed_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_todos_id ON todos(id);
	`)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns every row ordered by position.
func (s *SQLiteStore) Load(ctx context.Context) ([]todo.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, completed, created_at, completed_at
		FROM todos ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	tasks := []todo.Task{}
	for rows.Next() {
		var (
			t           todo.Task
			completed   int
			createdAt   string
			completedAt sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &completed, &createdAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		t.Completed = completed != 0
		t.CreatedAt = date.ParseLenient(createdAt)
		if completedAt.Valid && completedAt.String != "" {
			ts := date.ParseLenient(completedAt.String)
			t.CompletedAt = &ts
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, tasks []todo.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos"); err != nil {
		return fmt.Errorf("delete old todos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todos (position, id, title, completed, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		var completedAt any
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.String()
		}
		completed := 0
		if t.Completed {
			completed = 1
		}
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Title, completed, t.CreatedAt.String(), completedAt); err != nil {
			return fmt.Errorf("insert todo %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Lock serializes cycles within the process; SQLite's busy timeout covers
// writers in other processes.
func (s *SQLiteStore) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return func() error { s.mu.Unlock(); return nil }, nil
}
