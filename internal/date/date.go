// Package date provides the calendar Date and second-precision Timestamp
// types used in the todo data file.
package date

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	format          = "2006-01-02"
	timestampFormat = "2006-01-02 15:04:05"
)

// Date represents a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the local calendar date of t.
func Of(t time.Time) Date {
	t = t.Local()
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns today's date.
func Today() Date {
	return Of(time.Now())
}

// Parse parses a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(format)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Timestamp is a local wall-clock instant serialized as "YYYY-MM-DD HH:MM:SS".
// A value read from JSON that is not a timestamp is kept verbatim and
// written back unchanged; its Time is zero.
type Timestamp struct {
	time.Time
	raw string
}

// At truncates t to whole seconds, the precision of the serialized form.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS" in local time. RFC 3339 input
// is accepted too so files written by other tools still load.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(timestampFormat, s, time.Local)
	if err == nil {
		return Timestamp{Time: t}, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339, s); rfcErr == nil {
		return Timestamp{Time: t}, nil
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q: expected YYYY-MM-DD HH:MM:SS", s)
}

// ParseLenient parses s like ParseTimestamp but never fails: unparseable
// text is kept verbatim.
func ParseLenient(s string) Timestamp {
	if ts, err := ParseTimestamp(s); err == nil {
		return ts
	}
	quoted, _ := json.Marshal(s)
	return Timestamp{raw: string(quoted)}
}

// Valid reports whether the timestamp holds a parsed time rather than
// verbatim input.
func (ts Timestamp) Valid() bool {
	return ts.raw == ""
}

// Date returns the local calendar date of the timestamp.
func (ts Timestamp) Date() Date {
	return Of(ts.Time)
}

// On reports whether the timestamp falls on the given local calendar day.
// A verbatim value is on no day.
func (ts Timestamp) On(d Date) bool {
	return ts.Valid() && ts.Date().Equal(d)
}

// String returns the timestamp as YYYY-MM-DD HH:MM:SS in local time, or the
// verbatim text it was read from.
func (ts Timestamp) String() string {
	if !ts.Valid() {
		var s string
		if json.Unmarshal([]byte(ts.raw), &s) == nil {
			return s
		}
		return ts.raw
	}
	return ts.Local().Format(timestampFormat)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.Valid() {
		return []byte(ts.raw), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler. It does not fail on input
// that is not a timestamp; see Valid.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	var s string
	if json.Unmarshal(data, &s) == nil {
		if parsed, err := ParseTimestamp(s); err == nil {
			*ts = parsed
			return nil
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	ts.raw = compact.String()
	return nil
}
