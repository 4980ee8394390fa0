package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskdeck/internal/core/notify"
	"github.com/colonyops/taskdeck/internal/core/task"
)

// Theme represents a color scheme for the application.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme.
var TokyoNight = Theme{
	Name: "tokyonight",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// themes maps config theme names to themes.
var themes = map[string]Theme{
	"tokyonight": TokyoNight,
}

// ThemeByName returns the named theme, falling back to TokyoNight.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return TokyoNight
}

// Styles holds all the pre-computed styles for the UI.
type Styles struct {
	theme Theme

	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	ColumnHeader lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardMeta     lipgloss.Style
	CardOverdue  lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	FieldError   lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	Panel lipgloss.Style

	CalendarDay      lipgloss.Style
	CalendarToday    lipgloss.Style
	CalendarSelected lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles creates styles based on the given theme.
func NewStyles(t Theme) *Styles {
	return &Styles{
		theme: t,

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		ColumnActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		Card: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		CardMeta: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CardOverdue: lipgloss.NewStyle().
			Foreground(t.Error),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		CalendarDay: lipgloss.NewStyle().
			Foreground(t.Foreground),

		CalendarToday: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		CalendarSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}

// LevelStyle returns the foreground style for a notification level.
func (s *Styles) LevelStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelError:
		return lipgloss.NewStyle().Foreground(s.theme.Error)
	case notify.LevelWarning:
		return lipgloss.NewStyle().Foreground(s.theme.Warning)
	default:
		return lipgloss.NewStyle().Foreground(s.theme.Info)
	}
}

// StatusColor returns the accent color for a task status.
func (s *Styles) StatusColor(status task.Status) lipgloss.Color {
	switch status {
	case task.StatusInProgress:
		return s.theme.Warning
	case task.StatusDone:
		return s.theme.Success
	default:
		return s.theme.Accent
	}
}
