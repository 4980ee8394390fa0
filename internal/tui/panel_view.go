package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderWithPanel overlays the notification panel next to the main body.
func (m *Model) renderWithPanel(body string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderPanel())
}

func (m *Model) renderPanel() string {
	s := m.styles

	lines := []string{s.Title.Render(fmt.Sprintf("Notifications (%d)", len(m.notifications)))}

	if len(m.notifications) == 0 {
		lines = append(lines, s.TitleMuted.Render("all clear"))
	}

	for i, n := range m.notifications {
		marker := s.LevelStyle(n.Level).Render("●")
		line := marker + " " + n.Message
		when := s.CardMeta.Render(n.Timestamp.Format("15:04"))

		item := lipgloss.JoinVertical(lipgloss.Left, line, "  "+when)
		if i == m.panelIdx {
			item = s.ListSelected.Render(item)
		}
		lines = append(lines, item)
	}

	lines = append(lines, "", s.TitleMuted.Render("x dismiss  esc close"))

	return s.Panel.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
