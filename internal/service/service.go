// Package service runs the load, mutate, save cycle shared by the web
// server, the CLI and the terminal UI. It keeps no state between calls:
// the store is the only source of truth.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

// Service applies collection operations against a store.
type Service struct {
	store  store.Store
	now    func() time.Time
	ids    todo.IDStrategy
	log    *activity.Log
	source string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDStrategy selects how new ids are assigned.
func WithIDStrategy(ids todo.IDStrategy) Option {
	return func(s *Service) { s.ids = ids }
}

// WithActivity records every applied mutation in l.
func WithActivity(l *activity.Log) Option {
	return func(s *Service) { s.log = l }
}

// WithSource tags activity entries with the surface that made the change.
func WithSource(source string) Option {
	return func(s *Service) { s.source = source }
}

// New returns a Service over st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now, ids: todo.IDsByLength}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// List returns the full collection in stored order.
func (s *Service) List(ctx context.Context) ([]todo.Task, error) {
	return s.store.Load(ctx)
}

// Get returns the first task with id.
func (s *Service) Get(ctx context.Context, id int) (todo.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return todo.Task{}, err
	}
	i := todo.IndexOf(tasks, id)
	if i < 0 {
		return todo.Task{}, todo.NotFound(id)
	}
	return tasks[i], nil
}

// Add appends a task titled title. An empty title touches nothing and
// reports false.
func (s *Service) Add(ctx context.Context, title string) (todo.Task, bool, error) {
	if title == "" {
		return todo.Task{}, false, nil
	}
	var added todo.Task
	err := s.mutate(ctx, func(tasks []todo.Task, now time.Time) ([]todo.Task, *change) {
		tasks, added, _ = todo.Add(tasks, title, now, s.ids)
		return tasks, &change{activity.ActionAdd, added.ID, added.Title}
	})
	if err != nil {
		return todo.Task{}, false, err
	}
	return added, true, nil
}

// Complete marks the first task with id as completed. An unknown id is a
// no-op, but the collection is still saved. It reports whether a task matched.
func (s *Service) Complete(ctx context.Context, id int) (bool, error) {
	var found bool
	err := s.mutate(ctx, func(tasks []todo.Task, now time.Time) ([]todo.Task, *change) {
		if found = todo.Complete(tasks, id, now); !found {
			return tasks, nil
		}
		return tasks, &change{activity.ActionComplete, id, ""}
	})
	return found, err
}

// Uncomplete reopens the first task with id.
func (s *Service) Uncomplete(ctx context.Context, id int) (bool, error) {
	var found bool
	err := s.mutate(ctx, func(tasks []todo.Task, _ time.Time) ([]todo.Task, *change) {
		if found = todo.Uncomplete(tasks, id); !found {
			return tasks, nil
		}
		return tasks, &change{activity.ActionUncomplete, id, ""}
	})
	return found, err
}

// Delete removes every task with id and returns how many were removed.
func (s *Service) Delete(ctx context.Context, id int) (int, error) {
	var removed int
	err := s.mutate(ctx, func(tasks []todo.Task, _ time.Time) ([]todo.Task, *change) {
		if tasks, removed = todo.Delete(tasks, id); removed == 0 {
			return tasks, nil
		}
		return tasks, &change{activity.ActionDelete, id, fmt.Sprintf("removed %d", removed)}
	})
	return removed, err
}

// SetCompleted applies the API update: completed when non-nil replaces the
// flag, then completed_at follows the flag.
func (s *Service) SetCompleted(ctx context.Context, id int, completed *bool) (bool, error) {
	var found bool
	err := s.mutate(ctx, func(tasks []todo.Task, now time.Time) ([]todo.Task, *change) {
		if found = todo.SetCompleted(tasks, id, completed, now); !found {
			return tasks, nil
		}
		detail := "unchanged"
		if completed != nil {
			detail = fmt.Sprintf("completed=%t", *completed)
		}
		return tasks, &change{activity.ActionUpdate, id, detail}
	})
	return found, err
}

// change is the activity entry a mutation leaves behind.
type change struct {
	action string
	id     int
	detail string
}

// mutate holds the store lock, when the store has one, across load, fn,
// save and the activity record of fn's change.
func (s *Service) mutate(ctx context.Context, fn func([]todo.Task, time.Time) ([]todo.Task, *change)) (err error) {
	if l, ok := s.store.(store.Locker); ok {
		unlock, lockErr := l.Lock(ctx)
		if lockErr != nil {
			return lockErr
		}
		defer func() {
			if unlockErr := unlock(); err == nil {
				err = unlockErr
			}
		}()
	}

	tasks, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	tasks, c := fn(tasks, s.now())
	if err := s.store.Save(ctx, tasks); err != nil {
		return err
	}
	if c != nil {
		s.log.Record(s.now(), s.source, c.action, c.id, c.detail)
	}
	return nil
}

// Page is what the index page renders.
type Page struct {
	Tasks          []todo.Task
	CurrentDate    date.Date
	TodayCompleted int
}

// Page loads the collection and counts today's completions.
func (s *Service) Page(ctx context.Context) (Page, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Page{}, err
	}
	today := date.Of(s.now())
	return Page{
		Tasks:          tasks,
		CurrentDate:    today,
		TodayCompleted: todo.CountCompletedOn(tasks, today),
	}, nil
}

// Summary is the daily overview printed by "todolist today".
type Summary struct {
	Date           date.Date   `json:"date"`
	Total          int         `json:"total"`
	Open           int         `json:"open"`
	Done           int         `json:"done"`
	CompletedToday int         `json:"completed_today"`
	Completed      []todo.Task `json:"completed"`
	Remaining      []todo.Task `json:"remaining"`
}

// Today summarizes the collection for the current local date.
func (s *Service) Today(ctx context.Context) (Summary, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	today := date.Of(s.now())
	sum := Summary{
		Date:      today,
		Total:     len(tasks),
		Completed: todo.CompletedOn(tasks, today),
		Remaining: []todo.Task{},
	}
	if sum.Completed == nil {
		sum.Completed = []todo.Task{}
	}
	sum.CompletedToday = len(sum.Completed)
	for _, t := range tasks {
		if t.Completed {
			sum.Done++
			continue
		}
		sum.Open++
		sum.Remaining = append(sum.Remaining, t)
	}
	return sum, nil
}
