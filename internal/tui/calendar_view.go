package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// monthGrid lays out a month as weeks of seven day numbers. Zero marks a
// cell outside the month, so the first week carries leading blanks for the
// weekday the month starts on (weeks run Sunday through Saturday).
func monthGrid(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := daysInMonth(year, month)
	offset := int(first.Weekday())

	var grid [][7]int
	week := [7]int{}
	for day := 1; day <= days; day++ {
		cell := (offset + day - 1) % 7
		week[cell] = day
		if cell == 6 || day == days {
			grid = append(grid, week)
			week = [7]int{}
		}
	}
	return grid
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// selectedDate is the calendar cursor as a concrete date.
func (m *Model) selectedDate() time.Time {
	return time.Date(m.calMonth.Year(), m.calMonth.Month(), m.calDay, 0, 0, 0, 0, m.calMonth.Location())
}

func (m *Model) shiftMonth(delta int) {
	m.calMonth = m.calMonth.AddDate(0, delta, 0)
	if days := daysInMonth(m.calMonth.Year(), m.calMonth.Month()); m.calDay > days {
		m.calDay = days
	}
}

func (m *Model) shiftDay(delta int) {
	days := daysInMonth(m.calMonth.Year(), m.calMonth.Month())
	next := m.calDay + delta
	if next < 1 {
		next = 1
	}
	if next > days {
		next = days
	}
	m.calDay = next
}

func (m *Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.shiftDay(-1)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.shiftDay(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.shiftDay(-7)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.shiftDay(7)
		return m, nil

	case key.Matches(msg, m.keys.PrevMonth):
		m.shiftMonth(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextMonth):
		m.shiftMonth(1)
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if t, ok := m.selectedTask(); ok {
			m.openDetail(t)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) renderCalendar() string {
	s := m.styles
	now := time.Now()

	title := s.Title.Render(m.calMonth.Format("January 2006"))

	dayNames := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	header := make([]string, len(dayNames))
	for i, name := range dayNames {
		header[i] = s.TitleMuted.Render(fmt.Sprintf(" %s ", name))
	}

	rows := []string{strings.Join(header, " ")}
	for _, week := range monthGrid(m.calMonth.Year(), m.calMonth.Month()) {
		cells := make([]string, 7)
		for i, day := range week {
			cells[i] = m.renderCalendarCell(day, now)
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	grid := s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader("Calendar"),
		title,
		grid,
		m.renderDayAgenda(),
		m.renderCalendarHelp(),
	)
}

func (m *Model) renderCalendarCell(day int, now time.Time) string {
	s := m.styles

	if day == 0 {
		return "    "
	}

	date := time.Date(m.calMonth.Year(), m.calMonth.Month(), day, 0, 0, 0, 0, m.calMonth.Location())
	count := len(m.app.Registry.TasksOnDate(date))

	marker := " "
	if count > 0 {
		marker = "•"
	}
	cell := fmt.Sprintf("%2d%s ", day, marker)

	switch {
	case day == m.calDay:
		return s.CalendarSelected.Render(cell)
	case date.Year() == now.Year() && date.YearDay() == now.YearDay():
		return s.CalendarToday.Render(cell)
	default:
		return s.CalendarDay.Render(cell)
	}
}

func (m *Model) renderDayAgenda() string {
	s := m.styles
	date := m.selectedDate()
	tasks := m.app.Registry.TasksOnDate(date)

	lines := []string{s.ColumnHeader.Render(date.Format("Mon, Jan 2"))}
	if len(tasks) == 0 {
		lines = append(lines, s.TitleMuted.Render("  nothing due"))
	}
	for _, t := range tasks {
		lines = append(lines, m.renderListItem(t, false))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderCalendarHelp() string {
	s := m.styles
	return s.Help.Render(
		fmt.Sprintf("%s day  %s month  %s open  %s new  %s quit",
			s.HelpKey.Render("←→↑↓"),
			s.HelpKey.Render("[/]"),
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("q"),
		),
	)
}
