package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/deck"
	"github.com/colonyops/taskdeck/internal/tui"
	"github.com/colonyops/taskdeck/pkg/utils"
)

type TuiCmd struct {
	flags *Flags
	app   *deck.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *deck.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive board",
		UsageText: "taskdeck tui",
		Action:    cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	// Buffer anything written to the command writer while the TUI owns
	// the terminal, then flush it once the alt screen is released.
	deferred := &utils.DeferredWriter{}
	prev := c.Root().Writer
	c.Root().Writer = deferred

	runErr := tui.Run(ctx, cmd.app)

	c.Root().Writer = prev
	if err := deferred.Flush(os.Stdout); err != nil {
		return err
	}

	return runErr
}
