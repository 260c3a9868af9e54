// Package todo holds the Task type and the pure operations applied to a
// task collection. Nothing here performs I/O.
package todo

import (
	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

// Task is a single to-do item as stored in the data file.
type Task struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Completed   bool            `json:"completed"`
	CreatedAt   date.Timestamp  `json:"created_at"`
	CompletedAt *date.Timestamp `json:"completed_at"`

	// kept is a JSON object of members read from the file that did not fit
	// the fields above. They are written back unchanged.
	kept string
}

// Clone returns a copy of tasks that shares no pointers with the original.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.CompletedAt != nil {
			ts := *t.CompletedAt
			t.CompletedAt = &ts
		}
		out[i] = t
	}
	return out
}
