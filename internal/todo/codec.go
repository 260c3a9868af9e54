package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

// Member names in the order they are written.
var taskMembers = []string{"id", "title", "completed", "created_at", "completed_at"}

var errNotObject = errors.New("task is not a JSON object")

// UnmarshalJSON decodes one task member by member. A member whose value
// does not fit its field is kept verbatim instead of failing the task, so
// a hand-edited file survives a load and save.
func (t *Task) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	if members == nil {
		return errNotObject
	}

	*t = Task{}
	kept := make(map[string]json.RawMessage)
	for name, raw := range members {
		var ok bool
		switch name {
		case "id":
			t.ID, ok = decodeID(raw)
		case "title":
			ok = isJSONString(raw) && json.Unmarshal(raw, &t.Title) == nil
			if !ok {
				t.Title = string(raw)
			}
		case "completed":
			ok = json.Unmarshal(raw, &t.Completed) == nil
		case "created_at":
			ok = json.Unmarshal(raw, &t.CreatedAt) == nil
		case "completed_at":
			t.CompletedAt, ok = decodeCompletedAt(raw)
		}
		if !ok {
			kept[name] = raw
		}
	}
	if len(kept) > 0 {
		encoded, err := marshalPlain(kept)
		if err != nil {
			return err
		}
		t.kept = string(encoded)
	}
	return nil
}

// MarshalJSON writes the known members in a fixed order followed by any
// kept members sorted by name.
func (t Task) MarshalJSON() ([]byte, error) {
	kept := t.keptMembers()

	var b bytes.Buffer
	b.WriteByte('{')
	write := func(name string, raw []byte) {
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		b.Write(key)
		b.WriteByte(':')
		b.Write(raw)
	}

	for _, name := range taskMembers {
		if raw, ok := kept[name]; ok {
			write(name, raw)
			delete(kept, name)
			continue
		}
		raw, err := t.member(name)
		if err != nil {
			return nil, err
		}
		write(name, raw)
	}

	rest := make([]string, 0, len(kept))
	for name := range kept {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		write(name, kept[name])
	}

	b.WriteByte('}')
	return b.Bytes(), nil
}

func (t Task) member(name string) ([]byte, error) {
	switch name {
	case "id":
		return json.Marshal(t.ID)
	case "title":
		return marshalPlain(t.Title)
	case "completed":
		return json.Marshal(t.Completed)
	case "created_at":
		if t.CreatedAt.Valid() && t.CreatedAt.IsZero() {
			return []byte("null"), nil
		}
		return t.CreatedAt.MarshalJSON()
	default:
		if t.CompletedAt == nil {
			return []byte("null"), nil
		}
		return t.CompletedAt.MarshalJSON()
	}
}

func (t Task) keptMembers() map[string]json.RawMessage {
	kept := make(map[string]json.RawMessage)
	if t.kept != "" {
		_ = json.Unmarshal([]byte(t.kept), &kept)
	}
	return kept
}

// forget drops a kept member once its field has been set explicitly.
func (t *Task) forget(name string) {
	if t.kept == "" {
		return
	}
	kept := t.keptMembers()
	delete(kept, name)
	if len(kept) == 0 {
		t.kept = ""
		return
	}
	encoded, _ := marshalPlain(kept)
	t.kept = string(encoded)
}

// decodeID accepts any integral JSON number, 1.0 included.
func decodeID(raw json.RawMessage) (int, bool) {
	var n json.Number
	if isJSONString(raw) || json.Unmarshal(raw, &n) != nil || n == "" {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// decodeCompletedAt reads null and "" as not completed.
func decodeCompletedAt(raw json.RawMessage) (*date.Timestamp, bool) {
	var s string
	if string(raw) == "null" || (json.Unmarshal(raw, &s) == nil && s == "") {
		return nil, true
	}
	var ts date.Timestamp
	if err := json.Unmarshal(raw, &ts); err != nil {
		return nil, false
	}
	return &ts, true
}

func isJSONString(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '"'
}

// marshalPlain encodes v without HTML escaping.
func marshalPlain(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(b.String(), "\n")), nil
}
