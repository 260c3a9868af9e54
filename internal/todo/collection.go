package todo

import (
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

// IDStrategy selects how the id of a new task is derived from the collection.
type IDStrategy string

const (
	// IDsByLength assigns len(collection)+1. Ids can repeat after a delete.
	IDsByLength IDStrategy = "length"
	// IDsByMax assigns max(id)+1, which never reuses a live id.
	IDsByMax IDStrategy = "max"
)

// ParseIDStrategy validates a strategy name. The empty string means IDsByLength.
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch IDStrategy(s) {
	case "", IDsByLength:
		return IDsByLength, nil
	case IDsByMax:
		return IDsByMax, nil
	default:
		return "", fmt.Errorf("unknown id strategy %q (want %q or %q)", s, IDsByLength, IDsByMax)
	}
}

// NextID returns the id a task appended to tasks would receive.
func NextID(tasks []Task, strategy IDStrategy) int {
	if strategy != IDsByMax {
		return len(tasks) + 1
	}
	highest := 0
	for _, t := range tasks {
		highest = max(highest, t.ID)
	}
	return highest + 1
}

// Add appends a new open task. An empty title adds nothing and reports false.
func Add(tasks []Task, title string, now time.Time, strategy IDStrategy) ([]Task, Task, bool) {
	if title == "" {
		return tasks, Task{}, false
	}
	t := Task{
		ID:        NextID(tasks, strategy),
		Title:     title,
		CreatedAt: date.At(now),
	}
	return append(tasks, t), t, true
}

// Complete marks the first task with id as completed at now.
// It reports whether a task matched.
func Complete(tasks []Task, id int, now time.Time) bool {
	i := IndexOf(tasks, id)
	if i < 0 {
		return false
	}
	markCompleted(&tasks[i], now)
	return true
}

// Uncomplete reopens the first task with id. It reports whether a task matched.
func Uncomplete(tasks []Task, id int) bool {
	i := IndexOf(tasks, id)
	if i < 0 {
		return false
	}
	markOpen(&tasks[i])
	return true
}

// SetCompleted applies a completion update to the first task with id.
// A nil completed keeps the current flag. CompletedAt is then refreshed from
// the flag: stamped with now when completed, cleared otherwise.
func SetCompleted(tasks []Task, id int, completed *bool, now time.Time) bool {
	i := IndexOf(tasks, id)
	if i < 0 {
		return false
	}
	t := &tasks[i]
	done := t.Completed
	if completed != nil {
		done = *completed
	}
	if done {
		markCompleted(t, now)
	} else {
		markOpen(t)
	}
	return true
}

// Delete removes every task with id, preserving the order of the rest.
// It returns the filtered collection and the number of tasks removed.
func Delete(tasks []Task, id int) ([]Task, int) {
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return kept, len(tasks) - len(kept)
}

// CompletedOn returns the tasks whose CompletedAt falls on day.
func CompletedOn(tasks []Task, day date.Date) []Task {
	var out []Task
	for _, t := range tasks {
		if t.CompletedAt != nil && t.CompletedAt.On(day) {
			out = append(out, t)
		}
	}
	return out
}

// CountCompletedOn returns len(CompletedOn(tasks, day)) without allocating.
func CountCompletedOn(tasks []Task, day date.Date) int {
	n := 0
	for _, t := range tasks {
		if t.CompletedAt != nil && t.CompletedAt.On(day) {
			n++
		}
	}
	return n
}

// CountOpen returns the number of tasks not marked completed.
func CountOpen(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}
