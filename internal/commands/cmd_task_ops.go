package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/deck"
	"github.com/colonyops/taskdeck/pkg/iojson"
)

// MoveCmd transitions a task between statuses.
type MoveCmd struct {
	flags *Flags
	app   *deck.App
}

// NewMoveCmd creates a new move command
func NewMoveCmd(flags *Flags, app *deck.App) *MoveCmd {
	return &MoveCmd{flags: flags, app: app}
}

// Register adds the move command to the application
func (cmd *MoveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "move",
		Usage:     "Move a task to another status",
		UsageText: "taskdeck move <id> <status>",
		Action:    cmd.run,
	})

	return app
}

func (cmd *MoveCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: taskdeck move <id> <status>")
	}

	id := c.Args().Get(0)
	status := c.Args().Get(1)

	if err := cmd.app.Tasks.Move(ctx, id, status); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "moved %s to %s\n", id, status)
	return nil
}

// RmCmd deletes a task.
type RmCmd struct {
	flags *Flags
	app   *deck.App
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *deck.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a task",
		UsageText: "taskdeck rm <id>",
		Action:    cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("missing task id")
	}

	id := c.Args().First()
	if err := cmd.app.Tasks.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "deleted %s\n", id)
	return nil
}

// ShowCmd prints a single task.
type ShowCmd struct {
	flags *Flags
	app   *deck.App

	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *deck.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a task in detail",
		UsageText: "taskdeck show <id> [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("missing task id")
	}

	id := c.Args().First()
	t, ok := cmd.app.Registry.Task(id)
	if !ok {
		return fmt.Errorf("show task: %w", task.ErrNotFound)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.Write(out, t)
	}

	fmt.Fprintf(out, "%s\n", t.Title)
	fmt.Fprintf(out, "  id:       %s\n", t.ID)
	fmt.Fprintf(out, "  status:   %s\n", t.Status.Label())
	if t.AssignedTo != "" {
		fmt.Fprintf(out, "  assignee: %s\n", t.AssignedTo)
	}
	if t.DueDate != nil {
		fmt.Fprintf(out, "  due:      %s\n", t.DueDate.Format(task.DueDateLayout))
	}
	if t.Description != "" {
		fmt.Fprintf(out, "\n%s\n", t.Description)
	}
	return nil
}
