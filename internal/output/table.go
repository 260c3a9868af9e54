package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	actionStyles = map[string]lipgloss.Style{
		activity.ActionAdd:        lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		activity.ActionComplete:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		activity.ActionUncomplete: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		activity.ActionDelete:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		activity.ActionUpdate:     lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	}

	reportStyle = "dark"
)

// DisableColor strips all styling from output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	openStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	actionStyles = map[string]lipgloss.Style{}
	reportStyle = "notty"
}

// TaskTable renders tasks as a table. Times are shown relative to now.
func TaskTable(w io.Writer, tasks []todo.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tasks."))
		return
	}

	const pad = 2
	idW, statusW, titleW, createdW := 4, 8, 7, 9
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Title)+pad, 50)) //nolint:mnd // max title column width
		createdW = max(createdW, len(relTime(t.CreatedAt.Time, now))+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", titleW, "TITLE", createdW, "CREATED", "COMPLETED")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		completed := dimStyle.Render("--")
		if t.CompletedAt != nil {
			completed = relTime(t.CompletedAt.Time, now)
		}
		row := fmt.Sprintf("%-*d %s %s %s %s",
			idW, t.ID,
			padRight(statusLabel(t), statusW),
			padRight(truncate(t.Title, titleW-pad), titleW),
			padRight(relTime(t.CreatedAt.Time, now), createdW),
			completed)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t todo.Task, now time.Time) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", statusLabel(t))
	printField(w, "Created", t.CreatedAt.String()+" "+dimStyle.Render("("+relTime(t.CreatedAt.Time, now)+")"))
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.String()+" "+dimStyle.Render("("+relTime(t.CompletedAt.Time, now)+")"))
		if t.CreatedAt.Valid() && !t.CreatedAt.IsZero() && t.CompletedAt.Valid() {
			printField(w, "Lead time", FormatDuration(t.CompletedAt.Sub(t.CreatedAt.Time)))
		}
	} else {
		printField(w, "Completed", dimStyle.Render("--"))
	}
}

// ActivityTable renders activity log entries oldest first.
func ActivityTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No activity."))
		return
	}
	header := fmt.Sprintf("%-19s %-11s %-6s %-7s %s", "TIME", "ACTION", "TASK", "SOURCE", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		action := e.Action
		if st, ok := actionStyles[action]; ok {
			action = st.Render(action)
		}
		source := e.Source
		if source == "" {
			source = "--"
		}
		row := fmt.Sprintf("%-19s %s %-6s %-7s %s",
			e.Timestamp.Local().Format(time.DateTime),
			padRight(action, 11), //nolint:mnd // column width
			"#"+strconv.Itoa(e.TaskID),
			source,
			e.Detail)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func statusLabel(t todo.Task) string {
	if t.Completed {
		return doneStyle.Render("done")
	}
	return openStyle.Render("open")
}

// relTime renders then relative to now, e.g. "3 hours ago".
func relTime(then, now time.Time) string {
	if then.IsZero() {
		return "--"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 4 { //nolint:mnd // room for "x..."
		return s
	}
	return string(r[:width-3]) + "..."
}
