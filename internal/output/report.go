package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

const reportWidth = 80

// TodayMarkdown builds the daily summary as Markdown.
func TodayMarkdown(s service.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Today, %s\n\n", s.Date)
	fmt.Fprintf(&b, "**%d** completed today · **%d** open · **%d** done · %d total\n\n",
		s.CompletedToday, s.Open, s.Done, s.Total)

	b.WriteString("## Completed today\n\n")
	writeTaskList(&b, s.Completed, "Nothing completed yet.", func(t todo.Task) string {
		return fmt.Sprintf("- [x] #%d %s _(at %s)_\n", t.ID, escapeMarkdown(t.Title), t.CompletedAt.Format("15:04"))
	})

	b.WriteString("\n## Still open\n\n")
	writeTaskList(&b, s.Remaining, "All clear.", func(t todo.Task) string {
		return fmt.Sprintf("- [ ] #%d %s\n", t.ID, escapeMarkdown(t.Title))
	})
	return b.String()
}

func writeTaskList(b *strings.Builder, tasks []todo.Task, empty string, line func(todo.Task) string) {
	if len(tasks) == 0 {
		b.WriteString("_" + empty + "_\n")
		return
	}
	for _, t := range tasks {
		b.WriteString(line(t))
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`, "<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// TodayReport renders the daily summary through glamour.
func TodayReport(w io.Writer, s service.Summary) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(reportStyle),
		glamour.WithWordWrap(reportWidth),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(TodayMarkdown(s))
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// TodayCompact renders the daily summary on one line.
func TodayCompact(w io.Writer, s service.Summary) {
	fmt.Fprintf(w, "%s completed_today:%d open:%d done:%d total:%d\n",
		s.Date, s.CompletedToday, s.Open, s.Done, s.Total)
}
