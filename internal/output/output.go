// Package output handles formatting CLI output as table, JSON, compact lines
// or a rendered Markdown report.
package output

import (
	"os"
	"strings"
)

// EnvOutput selects the default format when no flag is given.
const EnvOutput = "TODOLIST_OUTPUT"

// Format is how a command prints its result.
type Format int

const (
	// FormatTable is the styled, human-readable default.
	FormatTable Format = iota
	// FormatJSON prints indented JSON for scripts.
	FormatJSON
	// FormatCompact prints one line per record.
	FormatCompact
)

var formatNames = map[string]Format{
	"table":   FormatTable,
	"json":    FormatJSON,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// ParseFormat maps a format name to a Format, ignoring case.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "table"
	}
}

// Detect picks the format from the flags (json wins over compact, compact
// over table), then from TODOLIST_OUTPUT, then falls back to table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvOutput)); ok {
		return f
	}
	return FormatTable
}
