package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskdeck/internal/core/task"
)

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	statuses := task.Statuses()
	status := statuses[m.columnIdx]
	cards := m.columns[status]

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.columnIdx > 0 {
			m.columnIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.columnIdx < len(statuses)-1 {
			m.columnIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cardIdx[status] > 0 {
			m.cardIdx[status]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cardIdx[status] < len(cards)-1 {
			m.cardIdx[status]++
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

	case key.Matches(msg, m.keys.MoveFwd):
		return m, m.moveSelected(1)

	case key.Matches(msg, m.keys.MoveBck):
		return m, m.moveSelected(-1)
	}

	return m, nil
}

// moveSelected moves the selected card one column in the given direction.
// Moves past either edge do nothing.
func (m *Model) moveSelected(dir int) tea.Cmd {
	t, ok := m.selectedTask()
	if !ok {
		return nil
	}

	statuses := task.Statuses()
	cur := 0
	for i, s := range statuses {
		if s == t.Status {
			cur = i
		}
	}

	target := cur + dir
	if target < 0 || target >= len(statuses) {
		return nil
	}

	dest := statuses[target]
	return m.doAction(func(ctx context.Context) error {
		return m.app.Tasks.Move(ctx, t.ID, string(dest))
	})
}

func (m *Model) renderBoard() string {
	statuses := task.Statuses()

	colWidth := 30
	if m.width > 0 {
		colWidth = max(20, m.width/len(statuses)-4)
	}

	columns := make([]string, 0, len(statuses))
	for i, status := range statuses {
		columns = append(columns, m.renderColumn(status, colWidth, i == m.columnIdx))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader("Board"),
		board,
		m.renderBoardHelp(),
	)
}

func (m *Model) renderColumn(status task.Status, width int, active bool) string {
	s := m.styles
	cards := m.columns[status]

	header := s.ColumnHeader.Render(fmt.Sprintf("%s (%d)", status.Label(), len(cards)))

	lines := []string{header, ""}
	if len(cards) == 0 {
		lines = append(lines, s.TitleMuted.Render("empty"))
	}
	for i, t := range cards {
		selected := active && i == m.cardIdx[status]
		lines = append(lines, m.renderCard(t, width-4, selected))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)

	style := s.Column
	if active {
		style = s.ColumnActive
	}
	return style.Width(width).Render(body)
}

func (m *Model) renderCard(t task.Task, width int, selected bool) string {
	s := m.styles

	style := s.Card
	if selected {
		style = s.CardSelected
	}

	title := style.Width(width).Render(t.Title)

	meta := make([]string, 0, 2)
	if t.AssignedTo != "" {
		meta = append(meta, m.userName(t.AssignedTo))
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("Jan 2")
		if t.Status != task.StatusDone && t.DueDate.Before(time.Now()) {
			meta = append(meta, s.CardOverdue.Render(due))
		} else {
			meta = append(meta, due)
		}
	}

	if len(meta) == 0 {
		return title + "\n"
	}

	metaLine := s.CardMeta.Render(strings.Join(meta, " · "))
	return lipgloss.JoinVertical(lipgloss.Left, title, "  "+metaLine) + "\n"
}

// userName resolves a user id to its display name, falling back to the
// derived name for users not yet in the snapshot.
func (m *Model) userName(id string) string {
	if u, ok := m.app.Registry.User(id); ok {
		return u.Name
	}
	return task.DisplayName(id)
}

func (m *Model) renderHeader(active string) string {
	s := m.styles

	tabs := []string{"Board", "List", "Calendar"}
	parts := make([]string, 0, len(tabs)+1)
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == active {
			parts = append(parts, s.Title.Render(label))
		} else {
			parts = append(parts, s.TitleMuted.Render(label))
		}
	}

	if n := len(m.notifications); n > 0 {
		parts = append(parts, s.LevelStyle(m.notifications[0].Level).Render(fmt.Sprintf("● %d", n)))
	}

	return s.StatusBar.Render(strings.Join(parts, "  ")) + "\n"
}

func (m *Model) renderBoardHelp() string {
	s := m.styles
	return s.Help.Render(
		fmt.Sprintf("%s move card  %s open  %s edit  %s new  %s del  %s notices  %s quit",
			s.HelpKey.Render("m/M"),
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("N"),
			s.HelpKey.Render("q"),
		),
	)
}
