package todo

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
)

// ParseID parses a task id the way the web routes do: unsigned decimal
// digits only, so "+1", "-1" and "1.0" are rejected.
func ParseID(input string) (int, error) {
	if input == "" {
		return 0, ValidateTaskID(input)
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, ValidateTaskID(input)
		}
	}
	id, err := strconv.Atoi(input)
	if err != nil {
		return 0, ValidateTaskID(input)
	}
	return id, nil
}

// ParseIDs splits a comma-separated ID string into deduplicated int IDs.
func ParseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := ParseID(p)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateTitle rejects the empty title the web form silently ignores.
func ValidateTitle(title string) error {
	if title == "" {
		return clierr.New(clierr.InvalidInput, "title must not be empty")
	}
	return nil
}

// NotFound returns a CLIError for an id that matched no task.
func NotFound(id int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}
