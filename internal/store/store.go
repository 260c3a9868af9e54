// Package store persists the full task collection. Every backend loads and
// saves the whole list; there are no partial updates.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

// Drivers accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported storage driver")

// Store loads and saves the whole collection.
type Store interface {
	Load(ctx context.Context) ([]todo.Task, error)
	Save(ctx context.Context, tasks []todo.Task) error
}

// Locker is implemented by stores that can serialize a load-mutate-save
// cycle across goroutines or processes.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// WarnFunc receives problems that are reported but not returned, such as an
// unparseable data file.
type WarnFunc func(err error)

// Options selects and configures a backend for Open.
type Options struct {
	Driver     string
	DataFile   string
	SQLitePath string
	Warn       WarnFunc
}

// Open returns the backend named by opts.Driver. An empty driver means JSON.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverJSON:
		s := NewFileStore(opts.DataFile)
		s.Warn = opts.Warn
		return s, nil
	case DriverSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}
}

// Close releases backend resources when the store holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
