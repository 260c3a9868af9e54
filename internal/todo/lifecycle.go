package todo

import (
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

// markCompleted sets Completed and stamps CompletedAt with now.
// Completing an already completed task moves CompletedAt forward.
func markCompleted(t *Task, now time.Time) {
	ts := date.At(now)
	t.Completed = true
	t.CompletedAt = &ts
	t.forget("completed")
	t.forget("completed_at")
}

// markOpen clears Completed and CompletedAt.
func markOpen(t *Task) {
	t.Completed = false
	t.CompletedAt = nil
	t.forget("completed")
	t.forget("completed_at")
}
