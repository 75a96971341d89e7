// Package tui implements the terminal task board.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/config"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewConfirmComplete
	viewConfirmDelete
	viewHistory
)

const (
	// tickInterval is how often statuses are re-derived and reminders checked.
	tickInterval = 30 * time.Second
	boardChrome  = 4 // header, counter line, blank line, status bar
)

// Board is the top-level bubbletea model.
type Board struct {
	svc      *tracker.Service
	cfg      *config.Config
	notifier *tracker.Notifier
	keys     keyMap

	tasks         []*task.Task
	visible       []*task.Task
	row           int
	scrollOff     int
	showCompleted bool

	completedToday int
	history        []activity.DayCount

	view   view
	width  int
	height int
	err    error
	notice string
	now    func() time.Time
}

// NewBoard creates a Board over the service.
func NewBoard(svc *tracker.Service, cfg *config.Config) *Board {
	b := &Board{
		svc:      svc,
		cfg:      cfg,
		notifier: tracker.NewNotifier(),
		keys:     defaultKeys(),
		now:      time.Now,
	}
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for reminders (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// WatchPaths returns the directories whose changes should reload the board.
func (b *Board) WatchPaths() []string {
	dirs := b.svc.Dirs()
	return []string{dirs.Data, dirs.Logs}
}

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically to refresh statuses and reminders.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// Init implements tea.Model. The first tick runs at once; each handled
// TickMsg schedules the next, so only one tick chain is ever live.
func (b *Board) Init() tea.Cmd {
	return func() tea.Msg { return TickMsg{} }
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case TickMsg:
		b.tick()
		return b, tickCmd()
	}
	return b, nil
}

// tick re-derives statuses and surfaces due reminders.
func (b *Board) tick() {
	if _, err := b.svc.RefreshStatuses(); err != nil {
		b.err = err
	}
	b.loadTasks()
	if due := b.notifier.Due(b.tasks, b.now()); len(due) > 0 {
		last := due[len(due)-1]
		b.notice = last.Title + " " + last.Body
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}

	switch b.view {
	case viewConfirmComplete, viewConfirmDelete:
		return b.handleConfirmKey(msg)
	case viewHistory:
		if key.Matches(msg, b.keys.History) || key.Matches(msg, b.keys.Quit) {
			b.view = viewList
		}
		return b, nil
	}
	return b.handleListKey(msg)
}

func (b *Board) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.notice = ""
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Up):
		if b.row > 0 {
			b.row--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Down):
		if b.row < len(b.visible)-1 {
			b.row++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.MoveUp):
		b.apply(func(id string) (tracker.Result, error) { return b.svc.Move(id, tracker.Up) })
		if b.err == nil && b.row > 0 {
			b.row--
		}
	case key.Matches(msg, b.keys.MoveDown):
		b.apply(func(id string) (tracker.Result, error) { return b.svc.Move(id, tracker.Down) })
		if b.err == nil && b.row < len(b.visible)-1 {
			b.row++
		}
	case key.Matches(msg, b.keys.Complete):
		if t := b.selectedTask(); t != nil && !t.Completed {
			b.view = viewConfirmComplete
		}
	case key.Matches(msg, b.keys.Delete):
		if b.selectedTask() != nil {
			b.view = viewConfirmDelete
		}
	case key.Matches(msg, b.keys.Highlight):
		b.apply(b.svc.ToggleHighlight)
	case key.Matches(msg, b.keys.Notify):
		b.apply(b.svc.ToggleNotification)
	case key.Matches(msg, b.keys.Completed):
		b.showCompleted = !b.showCompleted
		b.loadTasks()
	case key.Matches(msg, b.keys.History):
		b.loadTasks()
		b.view = viewHistory
	case key.Matches(msg, b.keys.Refresh):
		b.tick()
	}
	return b, nil
}

func (b *Board) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Yes):
		if b.view == viewConfirmComplete {
			b.apply(func(id string) (tracker.Result, error) { return b.svc.Complete(id, "") })
		} else {
			b.apply(func(id string) (tracker.Result, error) { return b.svc.Delete(id, "") })
		}
		b.view = viewList
	case key.Matches(msg, b.keys.No):
		b.view = viewList
	}
	return b, nil
}

// apply runs a mutation on the selected task and reloads.
func (b *Board) apply(fn func(id string) (tracker.Result, error)) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	res, err := fn(t.ID)
	b.err = err
	if err == nil {
		b.notice = res.Warning()
	}
	b.loadTasks()
}

// loadTasks reads the task list and the completion counters.
func (b *Board) loadTasks() {
	tasks, err := b.svc.List()
	if err != nil {
		b.err = err
		return
	}
	b.tasks = tasks

	b.visible = task.Active(tasks)
	if b.showCompleted {
		b.visible = append(b.visible, task.CompletedTasks(tasks)...)
	}

	b.completedToday = b.svc.CompletedToday()
	b.history = b.svc.History(b.cfg.HistoryDays())
	b.clampRow()
}

func (b *Board) selectedTask() *task.Task {
	if b.row < 0 || b.row >= len(b.visible) {
		return nil
	}
	return b.visible[b.row]
}

func (b *Board) clampRow() {
	if b.row >= len(b.visible) {
		b.row = len(b.visible) - 1
	}
	if b.row < 0 {
		b.row = 0
	}
	b.ensureVisible()
}

func (b *Board) listHeight() int {
	h := b.height - boardChrome
	if b.err != nil || b.notice != "" {
		h--
	}
	return max(h, 1)
}

func (b *Board) ensureVisible() {
	h := b.listHeight()
	if b.row < b.scrollOff {
		b.scrollOff = b.row
	}
	if b.row >= b.scrollOff+h {
		b.scrollOff = b.row - h + 1
	}
	if b.scrollOff < 0 {
		b.scrollOff = 0
	}
}
