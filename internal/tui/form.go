package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/taskdeck/internal/core/task"
)

// form field indexes
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldAssignee
	fieldStatus
	fieldSave
	fieldCount
)

// taskForm is the task editor. The same form backs both creation and
// editing; editID is empty for new tasks.
type taskForm struct {
	styles *Styles
	editID string

	title textinput.Model
	desc  textarea.Model
	due   textinput.Model

	users       []task.User
	assigneeIdx int // 0 = unassigned, i+1 = users[i]
	statusIdx   int

	focusIdx  int
	fieldErrs map[string]string
	submitted bool
}

func newTaskForm(styles *Styles, users []task.User, currentUserID string, existing *task.Task) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description (markdown)"
	desc.CharLimit = 2000
	desc.SetWidth(50)
	desc.SetHeight(4)
	desc.ShowLineNumbers = false

	due := textinput.New()
	due.Placeholder = task.DueDateLayout
	due.CharLimit = len(task.DueDateLayout)

	f := &taskForm{
		styles:    styles,
		title:     title,
		desc:      desc,
		due:       due,
		users:     users,
		fieldErrs: make(map[string]string),
	}

	if existing != nil {
		f.editID = existing.ID
		f.title.SetValue(existing.Title)
		f.desc.SetValue(existing.Description)
		if existing.DueDate != nil {
			f.due.SetValue(existing.DueDate.Format(task.DueDateLayout))
		}
		for i, u := range users {
			if u.ID == existing.AssignedTo {
				f.assigneeIdx = i + 1
			}
		}
		for i, s := range task.Statuses() {
			if s == existing.Status {
				f.statusIdx = i
			}
		}
	} else {
		// New tasks default to the session user.
		for i, u := range users {
			if u.ID == currentUserID {
				f.assigneeIdx = i + 1
			}
		}
	}

	f.applyFocus()
	return f
}

func (f *taskForm) setWidth(width int) {
	if width <= 0 {
		return
	}
	inner := width - 10
	if inner < 20 {
		inner = 20
	}
	if inner > 60 {
		inner = 60
	}
	f.desc.SetWidth(inner)
}

// handleKey processes navigation keys. Returns false when the key should
// fall through to the focused text field.
func (f *taskForm) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "tab":
		f.focusIdx = (f.focusIdx + 1) % fieldCount
		f.applyFocus()
		return true

	case "shift+tab":
		f.focusIdx = (f.focusIdx + fieldCount - 1) % fieldCount
		f.applyFocus()
		return true

	case "enter":
		switch f.focusIdx {
		case fieldTitle, fieldDueDate:
			f.focusIdx++
			f.applyFocus()
			return true
		case fieldSave:
			f.submitted = true
			return true
		case fieldAssignee, fieldStatus:
			return true
		}
		// Let enter insert newlines in the description.
		return false

	case "left":
		switch f.focusIdx {
		case fieldAssignee:
			f.cycleAssignee(-1)
			return true
		case fieldStatus:
			f.cycleStatus(-1)
			return true
		}

	case "right":
		switch f.focusIdx {
		case fieldAssignee:
			f.cycleAssignee(1)
			return true
		case fieldStatus:
			f.cycleStatus(1)
			return true
		}
	}

	return false
}

func (f *taskForm) cycleAssignee(dir int) {
	n := len(f.users) + 1
	f.assigneeIdx = (f.assigneeIdx + dir + n) % n
}

func (f *taskForm) cycleStatus(dir int) {
	n := len(task.Statuses())
	f.statusIdx = (f.statusIdx + dir + n) % n
}

func (f *taskForm) applyFocus() {
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()

	switch f.focusIdx {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDueDate:
		f.due.Focus()
	}
}

// update forwards messages to the focused text field.
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focusIdx {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDueDate:
		f.due, cmd = f.due.Update(msg)
	}
	return cmd
}

// draft collects the form values. Validation happens in the service.
func (f *taskForm) draft() task.Draft {
	assignedTo := ""
	if f.assigneeIdx > 0 && f.assigneeIdx <= len(f.users) {
		assignedTo = f.users[f.assigneeIdx-1].ID
	}

	return task.Draft{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Status:      string(task.Statuses()[f.statusIdx]),
		AssignedTo:  assignedTo,
		DueDate:     f.due.Value(),
	}
}

// setErrors maps field validation failures onto the form.
func (f *taskForm) setErrors(err error) {
	f.fieldErrs = make(map[string]string)

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			f.fieldErrs[fe.Field] = fe.Err.Error()
		}
		return
	}
	f.fieldErrs["title"] = err.Error()
}

func (f *taskForm) assigneeLabel() string {
	if f.assigneeIdx == 0 || f.assigneeIdx > len(f.users) {
		return "Unassigned"
	}
	return f.users[f.assigneeIdx-1].Name
}

func (m *Model) renderForm() string {
	f := m.form
	s := m.styles

	formTitle := "New Task"
	if f.editID != "" {
		formTitle = "Edit Task"
	}

	style := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	fieldErr := func(field string) string {
		if msg, ok := f.fieldErrs[field]; ok {
			return s.FieldError.Render("  " + msg)
		}
		return ""
	}

	saveStyle := s.Button
	if f.focusIdx == fieldSave {
		saveStyle = s.ButtonFocused
	}

	lines := []string{
		s.Title.Render(formTitle),
		"",
		"Title:" + fieldErr("title"),
		style(fieldTitle).Render(f.title.View()),
		"",
		"Description:",
		style(fieldDescription).Render(f.desc.View()),
		"",
		"Due date:" + fieldErr("due_date"),
		style(fieldDueDate).Width(16).Render(f.due.View()),
		"",
		"Assignee:",
		style(fieldAssignee).Render("◀ " + f.assigneeLabel() + " ▶"),
		"",
		"Status:" + fieldErr("status"),
		style(fieldStatus).Render("◀ " + task.Statuses()[f.statusIdx].Label() + " ▶"),
		"",
		saveStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next field  ←→: cycle  Ctrl+S: save  Esc: cancel"),
	}

	form := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}

func (m *Model) renderDeleteConfirm() string {
	s := m.styles

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Delete task?"),
		"",
		s.TitleMuted.Render(m.deleteTitle),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonFocused.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
