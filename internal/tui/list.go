// Package tui implements a terminal UI for the todo list.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewAdd
	viewConfirmDelete
)

// Key and layout constants.
const (
	keyEsc = "esc"

	listChrome   = 4 // header, blank line, blank line, status bar
	errorChrome  = 1 // extra line when an error is displayed
	inputChrome  = 2 // prompt line and blank line in add mode
	tickInterval = 30 * time.Second
	titleLimit   = 500
)

// Options configures a List model.
type Options struct {
	// ShowCreated appends the relative creation time to each row.
	ShowCreated bool
	// WatchPaths are the files whose changes should trigger a reload.
	WatchPaths []string
}

// List is the top-level bubbletea model: one row per task, in stored order.
type List struct {
	svc   *service.Service
	opts  Options
	keys  keyMap
	input textinput.Model

	tasks          []todo.Task
	today          date.Date
	todayCompleted int

	cursor int
	offset int // first visible row
	view   view
	width  int
	height int
	err    error
	now    func() time.Time // clock for relative times; defaults to the service clock

	// Delete confirmation.
	deleteID    int
	deleteTitle string
}

// NewList creates a List over svc and loads the collection.
func NewList(svc *service.Service, opts Options) *List {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Prompt = "new task: "
	ti.CharLimit = titleLimit

	m := &List{
		svc:   svc,
		opts:  opts,
		keys:  defaultKeys(),
		input: ti,
		now:   svc.Now,
	}
	m.loadTasks()
	return m
}

// SetNow overrides the clock used for relative times (for testing).
func (m *List) SetNow(fn func() time.Time) {
	m.now = fn
}

// WatchPaths returns the files that should be watched for changes.
func (m *List) WatchPaths() []string {
	return m.opts.WatchPaths
}

// Init implements tea.Model.
func (m *List) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		m.ensureVisible()
		return m, nil
	case ReloadMsg:
		m.loadTasks()
		return m, nil
	case TickMsg:
		// Reloading picks up a date change at midnight.
		m.loadTasks()
		return m, tickCmd()
	}

	if m.view == viewAdd {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *List) View() string {
	switch m.view {
	case viewConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewList()
	}
}

func (m *List) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, forceQuit) {
		return m, tea.Quit
	}

	switch m.view {
	case viewList:
		return m.handleListKey(msg)
	case viewAdd:
		return m.handleAddKey(msg)
	case viewConfirmDelete:
		return m.handleDeleteKey(msg)
	}
	return m, nil
}

func (m *List) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(m.tasks)-1, 0)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.Add):
		m.view = viewAdd
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		m.handleDeleteStart()
	case key.Matches(msg, m.keys.Reload):
		m.loadTasks()
	}
	m.ensureVisible()
	return m, nil
}

func (m *List) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, submit):
		title := m.input.Value()
		m.input.Blur()
		m.input.Reset()
		m.view = viewList
		added, ok, err := m.svc.Add(context.Background(), title)
		if err != nil {
			m.err = fmt.Errorf("adding task: %w", err)
			return m, nil
		}
		m.loadTasks()
		if ok {
			m.selectID(added.ID)
		}
		return m, nil
	case key.Matches(msg, abort):
		m.input.Blur()
		m.input.Reset()
		m.view = viewList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *List) handleDeleteStart() {
	if t := m.selectedTask(); t != nil {
		m.deleteID = t.ID
		m.deleteTitle = t.Title
		m.view = viewConfirmDelete
	}
}

func (m *List) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, confirm):
		m.executeDelete()
	case key.Matches(msg, cancel):
		m.view = viewList
	}
	return m, nil
}

func (m *List) executeDelete() {
	m.view = viewList
	if _, err := m.svc.Delete(context.Background(), m.deleteID); err != nil {
		m.err = fmt.Errorf("deleting task #%d: %w", m.deleteID, err)
		return
	}
	m.loadTasks()
}

func (m *List) toggleSelected() {
	t := m.selectedTask()
	if t == nil {
		return
	}
	id := t.ID
	var err error
	if t.Completed {
		_, err = m.svc.Uncomplete(context.Background(), id)
	} else {
		_, err = m.svc.Complete(context.Background(), id)
	}
	if err != nil {
		m.err = fmt.Errorf("updating task #%d: %w", id, err)
		return
	}
	m.loadTasks()
}

// loadTasks re-reads the collection and today's counter.
func (m *List) loadTasks() {
	page, err := m.svc.Page(context.Background())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.tasks = page.Tasks
	m.today = page.CurrentDate
	m.todayCompleted = page.TodayCompleted
	m.clampCursor()
}

func (m *List) selectedTask() *todo.Task {
	if m.cursor >= 0 && m.cursor < len(m.tasks) {
		return &m.tasks[m.cursor]
	}
	return nil
}

func (m *List) selectID(id int) {
	for i := len(m.tasks) - 1; i >= 0; i-- {
		if m.tasks[i].ID == id {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m *List) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// visibleRows returns how many task rows fit on screen.
func (m *List) visibleRows() int {
	if m.height == 0 {
		return max(len(m.tasks), 1)
	}
	h := m.height - listChrome
	if m.err != nil {
		h -= errorChrome
	}
	if m.view == viewAdd {
		h -= inputChrome
	}
	return max(h, 1)
}

// ensureVisible keeps the cursor inside the visible window.
func (m *List) ensureVisible() {
	rows := m.visibleRows()
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+rows:
		m.offset = m.cursor - rows + 1
	}
	if m.offset > max(len(m.tasks)-rows, 0) {
		m.offset = max(len(m.tasks)-rows, 0)
	}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically to refresh relative times and the current date.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	counterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// --- View rendering ---

func (m *List) viewList() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(dimStyle.Render("  No tasks yet. Press a to add one."))
		b.WriteString("\n")
	} else {
		end := min(m.offset+m.visibleRows(), len(m.tasks))
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	if m.view == viewAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *List) renderHeader() string {
	title := headerStyle.Render("Todo List")
	day := dimStyle.Render(m.today.String())
	counter := counterStyle.Render(strconv.Itoa(m.todayCompleted))
	return fmt.Sprintf("%s  %s  completed today: %s", title, day, counter)
}

func (m *List) renderRow(i int) string {
	t := m.tasks[i]

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := fmt.Sprintf("%s #%d %s", check, t.ID, t.Title)
	if m.width > 0 {
		line = truncate(line, m.width-2)
	}

	switch {
	case i == m.cursor:
		line = selectedStyle.Render("> " + line)
	case t.Completed:
		line = "  " + doneStyle.Render(line)
	default:
		line = "  " + line
	}

	if m.opts.ShowCreated && !t.CreatedAt.IsZero() {
		line += "  " + dimStyle.Render(humanize.RelTime(t.CreatedAt.Time, m.now(), "ago", "from now"))
	}
	return line
}

func (m *List) renderStatusBar() string {
	if m.view == viewAdd {
		return statusBarStyle.Render("enter: save  esc: cancel")
	}
	bindings := m.keys.shortHelp()
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	open := todo.CountOpen(m.tasks)
	status := fmt.Sprintf("%d tasks, %d open  ", len(m.tasks), open)
	return statusBarStyle.Render(status + strings.Join(parts, "  "))
}

func (m *List) viewConfirmDelete() string {
	prompt := fmt.Sprintf("Delete task #%d?\n\n%s\n\n%s",
		m.deleteID,
		truncate(m.deleteTitle, 60), //nolint:mnd // dialog text width
		dimStyle.Render("y: confirm  n: cancel"),
	)
	dialog := dialogStyle.Render(prompt)
	if m.width == 0 || m.height == 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
