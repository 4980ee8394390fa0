package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/deck"
	"github.com/colonyops/taskdeck/pkg/iojson"
)

type NotifyCmd struct {
	flags *Flags
	app   *deck.App

	jsonOutput bool
}

// NewNotifyCmd creates a new notify command
func NewNotifyCmd(flags *Flags, app *deck.App) *NotifyCmd {
	return &NotifyCmd{flags: flags, app: app}
}

// Register adds the notify command to the application
func (cmd *NotifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notify",
		Usage:     "Show active notifications for your tasks",
		UsageText: "taskdeck notify [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NotifyCmd) run(_ context.Context, c *cli.Command) error {
	active := cmd.app.Notifier.Active()

	if len(active) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "No active notifications")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, n := range active {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	for _, n := range active {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
	}
	return nil
}
