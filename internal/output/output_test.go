package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var now = time.Date(2026, 10, 19, 18, 0, 0, 0, time.Local)

func init() {
	DisableColor()
}

func sampleTasks() []todo.Task {
	created := date.At(now.Add(-3 * time.Hour))
	done := date.At(now.Add(-time.Hour))
	return []todo.Task{
		{ID: 1, Title: "Buy milk", CreatedAt: created},
		{ID: 2, Title: "File taxes", Completed: true, CreatedAt: created, CompletedAt: &done},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvOutput, "")
	if got := Detect(false, false, false); got != FormatTable {
		t.Errorf("default = %v, want table", got)
	}
	if got := Detect(true, true, true); got != FormatJSON {
		t.Errorf("json flag = %v, want json", got)
	}
	if got := Detect(false, true, true); got != FormatCompact {
		t.Errorf("compact flag = %v, want compact", got)
	}

	t.Setenv(EnvOutput, "json")
	if got := Detect(false, false, false); got != FormatJSON {
		t.Errorf("env json = %v", got)
	}
	if got := Detect(false, true, false); got != FormatTable {
		t.Errorf("flag should beat env, got %v", got)
	}
}

func TestTaskTable(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, sampleTasks(), now)
	out := buf.String()

	for _, want := range []string{"ID", "STATUS", "Buy milk", "open", "done", "3 hours ago", "1 hour ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("lines = %d, want 3", lines)
	}

	buf.Reset()
	TaskTable(&buf, nil, now)
	if !strings.Contains(buf.String(), "No tasks.") {
		t.Errorf("empty table = %q", buf.String())
	}
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, sampleTasks())
	want := "#1 [ ] Buy milk\n#2 [x] File taxes done:2026-10-19\n"
	if buf.String() != want {
		t.Fatalf("compact =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	TaskDetail(&buf, sampleTasks()[1], now)
	out := buf.String()
	for _, want := range []string{"Task #2: File taxes", "Completed:", "2026-10-19 17:00:00", "Lead time:", "2h 0m"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestJSONKeepsUnicode(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]string{"title": "Café <b>"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Café <b>") {
		t.Fatalf("JSON escaped output: %s", buf.String())
	}
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task not found: #3", map[string]any{"id": 3})
	var got ErrorResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Code != "TASK_NOT_FOUND" || got.Error != "task not found: #3" || got.Details["id"] != float64(3) {
		t.Fatalf("got %+v", got)
	}
}

func summary() service.Summary {
	tasks := sampleTasks()
	return service.Summary{
		Date:           date.Of(now),
		Total:          2,
		Open:           1,
		Done:           1,
		CompletedToday: 1,
		Completed:      tasks[1:],
		Remaining:      tasks[:1],
	}
}

func TestTodayMarkdown(t *testing.T) {
	md := TodayMarkdown(summary())
	for _, want := range []string{
		"# Today, 2026-10-19",
		"**1** completed today",
		"- [x] #2 File taxes _(at 17:00)_",
		"- [ ] #1 Buy milk",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	empty := TodayMarkdown(service.Summary{Date: date.Of(now)})
	if !strings.Contains(empty, "Nothing completed yet.") || !strings.Contains(empty, "All clear.") {
		t.Errorf("empty summary:\n%s", empty)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := escapeMarkdown("fix *all* the [bugs]"); got != `fix \*all\* the \[bugs\]` {
		t.Fatalf("escapeMarkdown = %q", got)
	}
}

func TestTodayReportRenders(t *testing.T) {
	var buf bytes.Buffer
	if err := TodayReport(&buf, summary()); err != nil {
		t.Fatalf("TodayReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Completed today", "File taxes", "Buy milk"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestTodayCompact(t *testing.T) {
	var buf bytes.Buffer
	TodayCompact(&buf, summary())
	if buf.String() != "2026-10-19 completed_today:1 open:1 done:1 total:2\n" {
		t.Fatalf("compact = %q", buf.String())
	}
}

func TestActivityTable(t *testing.T) {
	var buf bytes.Buffer
	ActivityTable(&buf, []activity.Entry{
		{Timestamp: now, Action: activity.ActionAdd, TaskID: 4, Detail: "Buy milk", Source: "web"},
	})
	out := buf.String()
	for _, want := range []string{"ACTION", "add", "#4", "web", "Buy milk", "2026-10-19 18:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("activity table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		90 * time.Minute: "1h 30m",
		50 * time.Hour:   "2d 2h",
		0:                "0h 0m",
	}
	for d, want := range tests {
		if got := FormatDuration(d); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, " JSON ": FormatJSON, "oneline": FormatCompact, "table": FormatTable} {
		got, ok := ParseFormat(in)
		if !ok || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseFormat("yaml"); ok {
		t.Error("yaml should not parse")
	}
	if FormatCompact.String() != "compact" {
		t.Errorf("String = %q", FormatCompact.String())
	}
}
