package todo

import (
	"errors"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

var now = time.Date(2026, 10, 19, 14, 5, 9, 0, time.Local)

func seed(titles ...string) []Task {
	var tasks []Task
	for i, title := range titles {
		tasks, _, _ = Add(tasks, title, now.Add(time.Duration(i)*time.Minute), IDsByLength)
	}
	return tasks
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	tasks := seed("a", "b", "c")
	for i, task := range tasks {
		if task.ID != i+1 {
			t.Errorf("tasks[%d].ID = %d, want %d", i, task.ID, i+1)
		}
		if task.Completed || task.CompletedAt != nil {
			t.Errorf("tasks[%d] should start open", i)
		}
	}
	if got := tasks[0].CreatedAt.String(); got != "2026-10-19 14:05:09" {
		t.Errorf("CreatedAt = %q", got)
	}
}

func TestAddEmptyTitleIsNoop(t *testing.T) {
	tasks := seed("a")
	got, _, ok := Add(tasks, "", now, IDsByLength)
	if ok {
		t.Fatal("Add with empty title reported success")
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}

	got, added, ok := Add(tasks, "   ", now, IDsByLength)
	if !ok || added.Title != "   " || len(got) != 2 {
		t.Fatalf("whitespace title should be stored verbatim, got %+v ok=%v", added, ok)
	}
}

func TestNextIDAfterDelete(t *testing.T) {
	tasks := seed("a", "b", "c")
	tasks, n := Delete(tasks, 1)
	if n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}

	if got := NextID(tasks, IDsByLength); got != 3 {
		t.Errorf("length strategy = %d, want 3", got)
	}
	if got := NextID(tasks, IDsByMax); got != 4 {
		t.Errorf("max strategy = %d, want 4", got)
	}

	tasks, _, _ = Add(tasks, "d", now, IDsByLength)
	if dups := DuplicateIDs(tasks); len(dups) != 1 || dups[0] != 3 {
		t.Errorf("DuplicateIDs = %v, want [3]", dups)
	}
}

func TestNextIDEmpty(t *testing.T) {
	if got := NextID(nil, IDsByMax); got != 1 {
		t.Errorf("NextID(nil, max) = %d, want 1", got)
	}
	if got := NextID(nil, IDsByLength); got != 1 {
		t.Errorf("NextID(nil, length) = %d, want 1", got)
	}
}

func TestCompleteAndUncomplete(t *testing.T) {
	tasks := seed("a", "b")
	later := now.Add(time.Hour)

	if !Complete(tasks, 2, later) {
		t.Fatal("Complete(2) found nothing")
	}
	if !tasks[1].Completed || tasks[1].CompletedAt == nil || !tasks[1].CompletedAt.Equal(later) {
		t.Fatalf("task 2 = %+v", tasks[1])
	}
	if tasks[0].Completed {
		t.Fatal("task 1 should be untouched")
	}

	again := later.Add(time.Hour)
	Complete(tasks, 2, again)
	if !tasks[1].CompletedAt.Equal(again) {
		t.Errorf("re-complete should refresh CompletedAt, got %v", tasks[1].CompletedAt)
	}

	if !Uncomplete(tasks, 2) {
		t.Fatal("Uncomplete(2) found nothing")
	}
	if tasks[1].Completed || tasks[1].CompletedAt != nil {
		t.Fatalf("task 2 after uncomplete = %+v", tasks[1])
	}

	if Complete(tasks, 99, now) || Uncomplete(tasks, 99) {
		t.Error("unknown id should report false")
	}
}

func TestCompleteFirstMatchOnly(t *testing.T) {
	tasks := []Task{{ID: 1, Title: "x"}, {ID: 1, Title: "y"}}
	Complete(tasks, 1, now)
	if !tasks[0].Completed || tasks[1].Completed {
		t.Fatalf("only the first duplicate should complete: %+v", tasks)
	}
}

func TestDeleteRemovesAllMatches(t *testing.T) {
	tasks := []Task{{ID: 1, Title: "x"}, {ID: 2, Title: "y"}, {ID: 1, Title: "z"}}
	got, n := Delete(tasks, 1)
	if n != 2 || len(got) != 1 || got[0].Title != "y" {
		t.Fatalf("Delete = %+v (%d removed)", got, n)
	}

	got, n = Delete(got, 42)
	if n != 0 || len(got) != 1 {
		t.Fatalf("deleting unknown id changed collection: %+v", got)
	}
}

func TestSetCompleted(t *testing.T) {
	yes, no := true, false
	later := now.Add(2 * time.Hour)

	tests := []struct {
		name      string
		start     bool
		completed *bool
		wantDone  bool
	}{
		{"set true", false, &yes, true},
		{"set false", true, &no, false},
		{"absent keeps open", false, nil, false},
		{"absent keeps done and restamps", true, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := seed("a")
			if tt.start {
				Complete(tasks, 1, now)
			}
			if !SetCompleted(tasks, 1, tt.completed, later) {
				t.Fatal("SetCompleted found nothing")
			}
			got := tasks[0]
			if got.Completed != tt.wantDone {
				t.Fatalf("Completed = %v, want %v", got.Completed, tt.wantDone)
			}
			if tt.wantDone && (got.CompletedAt == nil || !got.CompletedAt.Equal(later)) {
				t.Fatalf("CompletedAt = %v, want %v", got.CompletedAt, later)
			}
			if !tt.wantDone && got.CompletedAt != nil {
				t.Fatalf("CompletedAt = %v, want nil", got.CompletedAt)
			}
		})
	}

	if SetCompleted(nil, 1, &yes, now) {
		t.Error("SetCompleted on empty collection should report false")
	}
}

func TestCountCompletedOn(t *testing.T) {
	tasks := seed("a", "b", "c", "d")
	Complete(tasks, 1, now)
	Complete(tasks, 2, now.AddDate(0, 0, -1))
	Complete(tasks, 3, now.AddDate(-1, 0, 0))

	today := date.Of(now)
	if got := CountCompletedOn(tasks, today); got != 1 {
		t.Errorf("CountCompletedOn = %d, want 1", got)
	}
	if got := CompletedOn(tasks, today); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("CompletedOn = %+v", got)
	}
	if got := CountOpen(tasks); got != 1 {
		t.Errorf("CountOpen = %d, want 1", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	tasks := seed("a")
	Complete(tasks, 1, now)

	cp := Clone(tasks)
	cp[0].CompletedAt.Time = now.Add(time.Hour)
	cp[0].Title = "changed"

	if tasks[0].Title != "a" || !tasks[0].CompletedAt.Equal(now) {
		t.Fatalf("Clone shares state with original: %+v", tasks[0])
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("3, 1,3,,2")
	if err != nil {
		t.Fatalf("ParseIDs: %v", err)
	}
	want := []int{3, 1, 2}
	if len(ids) != len(want) {
		t.Fatalf("ParseIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ParseIDs = %v, want %v", ids, want)
		}
	}

	for _, bad := range []string{"", ",", "-1", "+2", "1.0", "abc", "1,x"} {
		_, err := ParseIDs(bad)
		var ce *clierr.Error
		if !errors.As(err, &ce) || ce.Code != clierr.InvalidTaskID {
			t.Errorf("ParseIDs(%q) err = %v, want %s", bad, err, clierr.InvalidTaskID)
		}
	}
}

func TestParseIDStrategy(t *testing.T) {
	for in, want := range map[string]IDStrategy{"": IDsByLength, "length": IDsByLength, "max": IDsByMax} {
		got, err := ParseIDStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseIDStrategy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseIDStrategy("uuid"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
