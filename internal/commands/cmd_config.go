package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/deck"
)

type ConfigCmd struct {
	flags *Flags
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "taskdeck config validate",
				Action:    cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	out := c.Root().Writer

	err := cmd.flags.Config.Validate()
	if err == nil {
		fmt.Fprintln(out, "Configuration is valid")
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			fmt.Fprintf(out, "error: %s: %v\n", fe.Field, fe.Err)
		}
		return cli.Exit(fmt.Sprintf("%d error(s) found", len(fieldErrs)), 1)
	}

	return err
}

// WhoamiCmd prints the session identity.
type WhoamiCmd struct {
	flags *Flags
	app   *deck.App
}

// NewWhoamiCmd creates a new whoami command.
func NewWhoamiCmd(flags *Flags, app *deck.App) *WhoamiCmd {
	return &WhoamiCmd{flags: flags, app: app}
}

// Register adds the whoami command to the application.
func (cmd *WhoamiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "whoami",
		Usage:     "Show your session identity",
		UsageText: "taskdeck whoami",
		Action:    cmd.run,
	})

	return app
}

func (cmd *WhoamiCmd) run(_ context.Context, c *cli.Command) error {
	id := cmd.app.Tasks.CurrentUserID()
	fmt.Fprintf(c.Root().Writer, "%s (%s)\n", task.DisplayName(id), id)
	return nil
}
