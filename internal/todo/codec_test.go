package todo

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTaskDecodeIsLenient(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantID    int
		wantDone  bool
		wantStamp bool
	}{
		{"empty completed_at", `{"id":1,"title":"a","completed":false,"created_at":"2026-10-18 08:00:00","completed_at":""}`, 1, false, false},
		{"float id", `{"id":4.0,"title":"a","completed":true,"created_at":"2026-10-18 08:00:00","completed_at":"2026-10-19 09:00:00"}`, 4, true, true},
		{"missing members", `{"title":"a"}`, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Task
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.ID != tt.wantID || got.Completed != tt.wantDone || (got.CompletedAt != nil) != tt.wantStamp {
				t.Fatalf("task = %+v", got)
			}
		})
	}
}

func TestTaskRoundTripKeepsUnknownMembers(t *testing.T) {
	in := `{"id":"seven","title":"a and b","completed":"yes","created_at":"long ago","completed_at":null,"tags":["x"]}`
	var task Task
	if err := json.Unmarshal([]byte(in), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"seven","title":"a and b","completed":"yes","created_at":"long ago","completed_at":null,"tags":["x"]}`
	if string(out) != want {
		t.Fatalf("marshal = %s\nwant      %s", out, want)
	}
}

func TestCompleteReplacesKeptFlag(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":1,"title":"a","completed":"yes","created_at":"2026-10-18 08:00:00"}`), &task); err != nil {
		t.Fatal(err)
	}
	tasks := []Task{task}
	Complete(tasks, 1, time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local))

	out, err := json.Marshal(tasks[0])
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":1,"title":"a","completed":true,"created_at":"2026-10-18 08:00:00","completed_at":"2026-10-19 09:00:00"}`
	if string(out) != want {
		t.Fatalf("marshal = %s\nwant      %s", out, want)
	}
}
