package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

// TaskCompact renders tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []todo.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with its timestamps.
func TaskDetailCompact(w io.Writer, t todo.Task) {
	fmt.Fprintln(w, formatTaskLine(t))
	ts := "  created:" + t.CreatedAt.String()
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.String()
	}
	fmt.Fprintln(w, ts)
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t todo.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := "#" + strconv.Itoa(t.ID) + " [" + mark + "] " + t.Title
	if t.CompletedAt != nil {
		day := t.CompletedAt.String()
		if t.CompletedAt.Valid() {
			day = t.CompletedAt.Date().String()
		}
		line += " done:" + day
	}
	return line
}
