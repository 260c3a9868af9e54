package store

import (
	"context"
	"sync"

	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

// MemoryStore keeps the collection in process memory. Loads and saves copy
// the slice so callers never share state with the store.
type MemoryStore struct {
	sem chan struct{} // held across a service load-mutate-save cycle

	mu    sync.Mutex
	tasks []todo.Task
	saves int
}

// NewMemoryStore returns a store seeded with tasks.
func NewMemoryStore(tasks ...todo.Task) *MemoryStore {
	return &MemoryStore{tasks: todo.Clone(tasks), sem: make(chan struct{}, 1)}
}

// Load returns a copy of the stored collection.
func (s *MemoryStore) Load(_ context.Context) ([]todo.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todo.Clone(s.tasks), nil
}

// Save replaces the stored collection with a copy of tasks.
func (s *MemoryStore) Save(_ context.Context, tasks []todo.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = todo.Clone(tasks)
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Lock serializes callers within the process.
func (s *MemoryStore) Lock(ctx context.Context) (func() error, error) {
	select {
	case s.sem <- struct{}{}:
		return func() error { <-s.sem; return nil }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
