// Package tui implements the interactive board, list, and calendar views on
// top of bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/taskdeck/internal/core/notify"
	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/deck"
)

// viewMode identifies what the main area is showing.
type viewMode int

const (
	modeBoard viewMode = iota
	modeList
	modeCalendar
	modeDetail
	modeForm
	modeConfirmDelete
)

// actionDoneMsg reports the outcome of a store action.
type actionDoneMsg struct {
	err error
}

// Model is the root bubbletea model.
type Model struct {
	app    *deck.App
	bridge *SnapshotBridge
	styles *Styles
	keys   KeyMap

	width  int
	height int

	mode     viewMode
	returnTo viewMode

	// state read from the registry on every change signal
	columns       map[task.Status][]task.Task
	users         []task.User
	notifications []notify.Notification

	// board state
	columnIdx int
	cardIdx   map[task.Status]int

	// list state
	listIdx int

	// calendar state
	calMonth time.Time
	calDay   int

	// detail state
	detailID string

	// form state
	form *taskForm

	// delete confirmation
	deleteID    string
	deleteTitle string

	// notifications panel
	showPanel bool
	panelIdx  int
}

// NewModel creates the root model for a started app.
func NewModel(app *deck.App) *Model {
	now := time.Now()

	m := &Model{
		app:      app,
		bridge:   NewSnapshotBridge(app.Bus),
		styles:   NewStyles(ThemeByName(app.Config.TUI.Theme)),
		keys:     DefaultKeyMap(),
		mode:     modeBoard,
		cardIdx:  make(map[task.Status]int),
		calMonth: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		calDay:   now.Day(),
	}
	m.refresh()
	return m
}

// Init starts waiting for state change signals.
func (m *Model) Init() tea.Cmd {
	return m.bridge.WaitForSignal()
}

// refresh re-reads the registry and notifier into render state.
func (m *Model) refresh() {
	reg := m.app.Registry

	m.columns = make(map[task.Status][]task.Task, len(task.Statuses()))
	for _, status := range task.Statuses() {
		m.columns[status] = reg.TasksByStatus(status)
	}
	m.users = reg.Users()
	m.notifications = m.app.Notifier.Active()

	m.clampCursors()
}

func (m *Model) clampCursors() {
	for _, status := range task.Statuses() {
		if n := len(m.columns[status]); m.cardIdx[status] >= n {
			m.cardIdx[status] = max(0, n-1)
		}
	}
	if n := m.app.Registry.TaskCount(); m.listIdx >= n {
		m.listIdx = max(0, n-1)
	}
	if m.panelIdx >= len(m.notifications) {
		m.panelIdx = max(0, len(m.notifications)-1)
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form.setWidth(msg.Width)
		}
		return m, nil

	case stateChangedMsg:
		if m.bridge.Drain() {
			m.refresh()
		}
		return m, m.bridge.WaitForSignal()

	case actionDoneMsg:
		if msg.err != nil {
			m.app.Notifier.Push(notify.LevelError, "action-failed", actionErrorMessage(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeForm && m.form != nil {
		cmd := m.form.update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal modes capture all input first.
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(msg)
	case modeDetail:
		return m.updateDetail(msg)
	}

	if m.showPanel {
		return m.updatePanel(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.bridge.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.BoardView):
		m.mode = modeBoard
		return m, nil

	case key.Matches(msg, m.keys.ListView):
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.CalendarView):
		m.mode = modeCalendar
		return m, nil

	case key.Matches(msg, m.keys.Notifications):
		m.showPanel = true
		m.panelIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.openForm("")
		return m, nil
	}

	switch m.mode {
	case modeBoard:
		return m.updateBoard(msg)
	case modeList:
		return m.updateList(msg)
	case modeCalendar:
		return m.updateCalendar(msg)
	}

	return m, nil
}

func (m *Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Notifications):
		m.showPanel = false
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.panelIdx > 0 {
			m.panelIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.panelIdx < len(m.notifications)-1 {
			m.panelIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if m.panelIdx < len(m.notifications) {
			m.app.Notifier.Dismiss(m.notifications[m.panelIdx].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		m.bridge.Close()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.deleteID
		m.mode = m.returnTo
		m.deleteID = ""
		return m, m.doAction(func(ctx context.Context) error {
			return m.app.Tasks.Delete(ctx, id)
		})
	case "n", "N", "esc":
		m.mode = m.returnTo
		m.deleteID = ""
		return m, nil
	}
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = m.returnTo
		m.detailID = ""
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		id := m.detailID
		m.mode = m.returnTo
		m.detailID = ""
		m.openForm(id)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.app.Registry.Task(m.detailID); ok {
			m.confirmDelete(t)
		}
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		m.bridge.Close()
		return m, tea.Quit
	}
	return m, nil
}

// selectedTask returns the task under the cursor for the current view.
func (m *Model) selectedTask() (task.Task, bool) {
	switch m.mode {
	case modeBoard:
		status := task.Statuses()[m.columnIdx]
		cards := m.columns[status]
		if idx := m.cardIdx[status]; idx < len(cards) {
			return cards[idx], true
		}
	case modeList:
		tasks := m.listTasks()
		if m.listIdx < len(tasks) {
			return tasks[m.listIdx], true
		}
	case modeCalendar:
		tasks := m.app.Registry.TasksOnDate(m.selectedDate())
		if len(tasks) > 0 {
			return tasks[0], true
		}
	}
	return task.Task{}, false
}

func (m *Model) confirmDelete(t task.Task) {
	m.returnTo = m.mode
	m.mode = modeConfirmDelete
	m.deleteID = t.ID
	m.deleteTitle = t.Title
}

func (m *Model) openDetail(t task.Task) {
	m.returnTo = m.mode
	m.mode = modeDetail
	m.detailID = t.ID
}

// openForm opens the editor. An empty id means a new task.
func (m *Model) openForm(id string) {
	var existing *task.Task
	if id != "" {
		if t, ok := m.app.Registry.Task(id); ok {
			existing = &t
		}
	}

	m.returnTo = m.mode
	m.form = newTaskForm(m.styles, m.users, m.app.Tasks.CurrentUserID(), existing)
	m.form.setWidth(m.width)
	m.mode = modeForm
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = m.returnTo
		m.form = nil
		return m, nil

	case msg.String() == "ctrl+s":
		return m, m.saveForm()
	}

	if m.form.handleKey(msg) {
		if m.form.submitted {
			return m, m.saveForm()
		}
		return m, nil
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m *Model) saveForm() tea.Cmd {
	draft := m.form.draft()
	editID := m.form.editID

	ctx := context.Background()

	var err error
	if editID == "" {
		_, err = m.app.Tasks.Create(ctx, draft)
	} else {
		err = m.app.Tasks.Update(ctx, editID, draft)
	}

	if err != nil {
		if deck.IsValidationError(err) {
			m.form.setErrors(err)
			m.form.submitted = false
			return nil
		}
		m.mode = m.returnTo
		m.form = nil
		return func() tea.Msg { return actionDoneMsg{err: err} }
	}

	m.mode = m.returnTo
	m.form = nil
	return nil
}

// doAction runs a store action off the update loop and reports its outcome.
func (m *Model) doAction(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}

func actionErrorMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return "That task no longer exists"
	case errors.Is(err, task.ErrPermissionDenied):
		return "You do not have permission to do that"
	case errors.Is(err, task.ErrUnavailable):
		return "The store is unavailable, try again shortly"
	default:
		return fmt.Sprintf("Action failed: %v", err)
	}
}

// View renders the current mode.
func (m *Model) View() string {
	switch m.mode {
	case modeForm:
		return m.renderForm()
	case modeConfirmDelete:
		return m.renderDeleteConfirm()
	case modeDetail:
		return m.renderDetail()
	}

	var body string
	switch m.mode {
	case modeList:
		body = m.renderList()
	case modeCalendar:
		body = m.renderCalendar()
	default:
		body = m.renderBoard()
	}

	if m.showPanel {
		return m.renderWithPanel(body)
	}
	return body
}
