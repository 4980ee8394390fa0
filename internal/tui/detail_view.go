package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// renderMarkdown renders markdown for the detail view, falling back to the
// raw text when the renderer fails.
func renderMarkdown(content string, width int) string {
	wrapWidth := width
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	if wrapWidth > 78 {
		wrapWidth = 78
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func (m *Model) renderDetail() string {
	s := m.styles

	t, ok := m.app.Registry.Task(m.detailID)
	if !ok {
		return s.TitleMuted.Render("Task no longer exists. Press esc to go back.")
	}

	status := lipgloss.NewStyle().
		Foreground(s.StatusColor(t.Status)).
		Render(t.Status.Label())

	assignee := "Unassigned"
	if t.AssignedTo != "" {
		assignee = m.userName(t.AssignedTo)
	}

	due := "None"
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2, 2006")
	}

	desc := s.TitleMuted.Render("No description")
	if t.Description != "" {
		desc = renderMarkdown(t.Description, m.width-8)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(t.Title),
		"",
		s.TitleMuted.Render("Status"),
		status,
		"",
		s.TitleMuted.Render("Assignee"),
		assignee,
		"",
		s.TitleMuted.Render("Due date"),
		due,
		"",
		s.TitleMuted.Render("Description"),
		desc,
		"",
		s.TitleMuted.Render(fmt.Sprintf("Created by %s on %s", m.userName(t.CreatedBy), t.CreatedAt.Format("Jan 2, 2006"))),
		"",
		m.renderDetailHelp(),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m *Model) renderDetailHelp() string {
	s := m.styles
	return s.Help.Render(
		fmt.Sprintf("%s edit  %s delete  %s back",
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		),
	)
}
