package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/taskdeck/internal/deck"
)

// Run starts the interactive UI and blocks until the user quits.
func Run(ctx context.Context, app *deck.App) error {
	model := NewModel(app)
	defer model.bridge.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
