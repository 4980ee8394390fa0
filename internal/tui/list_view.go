package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskdeck/internal/core/task"
)

// listTasks returns the list view ordering: the session user's tasks first,
// then everyone else's, both sorted by due date.
func (m *Model) listTasks() []task.Task {
	me := m.app.Tasks.CurrentUserID()
	mine := m.app.Registry.TasksAssignedTo(me)
	others := m.app.Registry.TasksNotAssignedTo(me)
	return append(mine, others...)
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.listTasks()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.listIdx > 0 {
			m.listIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.listIdx < len(tasks)-1 {
			m.listIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if t, ok := m.selectedTask(); ok {
			m.openDetail(t)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selectedTask(); ok {
			m.openForm(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selectedTask(); ok {
			m.confirmDelete(t)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) renderList() string {
	s := m.styles
	me := m.app.Tasks.CurrentUserID()
	mine := m.app.Registry.TasksAssignedTo(me)
	others := m.app.Registry.TasksNotAssignedTo(me)

	lines := []string{m.renderHeader("List")}

	lines = append(lines, s.ColumnHeader.Render(fmt.Sprintf("My tasks (%d)", len(mine))))
	if len(mine) == 0 {
		lines = append(lines, s.TitleMuted.Render("  nothing assigned to you"))
	}
	for i, t := range mine {
		lines = append(lines, m.renderListItem(t, i == m.listIdx))
	}

	lines = append(lines, "", s.ColumnHeader.Render(fmt.Sprintf("Everything else (%d)", len(others))))
	if len(others) == 0 {
		lines = append(lines, s.TitleMuted.Render("  nothing here"))
	}
	for i, t := range others {
		lines = append(lines, m.renderListItem(t, len(mine)+i == m.listIdx))
	}

	lines = append(lines, m.renderListHelp())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderListItem(t task.Task, selected bool) string {
	s := m.styles

	status := lipgloss.NewStyle().
		Foreground(s.StatusColor(t.Status)).
		Render(fmt.Sprintf("[%s]", t.Status.Label()))

	line := status + " " + t.Title
	if t.DueDate != nil {
		line += s.CardMeta.Render("  due " + t.DueDate.Format("Jan 2, 2006"))
	}
	if t.AssignedTo != "" {
		line += s.CardMeta.Render("  @" + m.userName(t.AssignedTo))
	}

	if selected {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

func (m *Model) renderListHelp() string {
	s := m.styles
	return s.Help.Render(
		fmt.Sprintf("%s open  %s edit  %s new  %s del  %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("q"),
		),
	)
}
