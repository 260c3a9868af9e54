// Package activity records mutations in an append-only JSON-lines file
// kept next to the data file.
package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileName is the log's name inside the data directory.
	FileName = "activity.jsonl"
	// DefaultMaxEntries caps the log when no limit is configured.
	DefaultMaxEntries = 10000

	logFileMode = 0o600
)

// Actions recorded by the service.
const (
	ActionAdd        = "add"
	ActionComplete   = "complete"
	ActionUncomplete = "uncomplete"
	ActionDelete     = "delete"
	ActionUpdate     = "update"
)

// Sources name the surface a mutation came through.
const (
	SourceWeb = "web"
	SourceCLI = "cli"
	SourceTUI = "tui"
)

// Entry is a single activity log line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id"`
	Detail    string    `json:"detail"`
	Source    string    `json:"source,omitempty"`
}

// Log appends entries to a file, truncating the oldest lines once the file
// holds more than Max entries.
type Log struct {
	Path string
	Max  int
}

// New returns a log stored beside dataFile.
func New(dataFile string, maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{Path: filepath.Join(filepath.Dir(dataFile), FileName), Max: maxEntries}
}

// Append writes entry as one JSON line.
func (l *Log) Append(entry Entry) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path derived from the data file
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	// Best-effort; an oversized log is not an error.
	_ = l.truncate()

	return nil
}

// Record appends an entry stamped with now and discards any error, so that
// a failing log never fails the mutation it describes.
func (l *Log) Record(now time.Time, source, action string, taskID int, detail string) {
	if l == nil {
		return
	}
	_ = l.Append(Entry{
		Timestamp: now,
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
		Source:    source,
	})
}

// Read returns the last n entries, oldest first. n <= 0 returns all of them.
// Lines that do not decode are skipped. A missing file yields no entries.
func (l *Log) Read(n int) ([]Entry, error) {
	lines, err := readLines(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		var e Entry
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// truncate rewrites the file keeping only the most recent Max lines.
func (l *Log) truncate() error {
	lines, err := readLines(l.Path)
	if err != nil {
		return err
	}
	if len(lines) <= l.Max {
		return nil
	}

	lines = lines[len(lines)-l.Max:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(l.Path, []byte(buf.String()), logFileMode)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
