package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/twiced-technology-gmbh/todolist/internal/filelock"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

const (
	dataFileMode = 0o600
	backupSuffix = ".bak"
)

// ErrMalformed wraps decode failures passed to FileStore.Warn.
var ErrMalformed = errors.New("malformed data file")

// FileStore keeps the collection in a single JSON file that is rewritten in
// full on every Save.
type FileStore struct {
	Path string
	// Warn, when set, receives decode errors that Load otherwise swallows.
	Warn WarnFunc
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file. A missing or unparseable file yields an empty
// collection and no error. Members that do not fit a task field are kept
// and written back by Save.
func (s *FileStore) Load(_ context.Context) ([]todo.Task, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []todo.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		s.warn(fmt.Errorf("%w %s: %w", ErrMalformed, s.Path, err))
		return []todo.Task{}, nil
	}
	return tasks, nil
}

// decodeTasks parses a data file. Tasks decode leniently, so only a
// document that is not a JSON array of objects fails.
func decodeTasks(data []byte) ([]todo.Task, error) {
	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}

func (s *FileStore) warn(err error) {
	if s.Warn != nil {
		s.Warn(err)
	}
}

// Save overwrites the file with the collection as indented JSON.
func (s *FileStore) Save(_ context.Context, tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if err := s.backupUnreadable(); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), dataFileMode); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return nil
}

// backupUnreadable copies a data file that Load could not decode to
// BackupPath before Save replaces it. A failed copy fails the save.
func (s *FileStore) backupUnreadable() error {
	data, err := os.ReadFile(s.Path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if _, err := decodeTasks(data); err == nil {
		return nil
	}
	if err := os.WriteFile(s.BackupPath(), data, dataFileMode); err != nil {
		return fmt.Errorf("backing up unreadable %s: %w", s.Path, err)
	}
	s.warn(fmt.Errorf("%w %s: previous contents kept in %s", ErrMalformed, s.Path, s.BackupPath()))
	return nil
}

// BackupPath is where Save keeps an unreadable data file it overwrites.
func (s *FileStore) BackupPath() string {
	return s.Path + backupSuffix
}

// Lock takes an advisory lock on a sidecar file next to the data file.
func (s *FileStore) Lock(ctx context.Context) (func() error, error) {
	unlock, err := filelock.Lock(ctx, s.Path+".lock")
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", s.Path, err)
	}
	return unlock, nil
}
