package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/deck"
	"github.com/colonyops/taskdeck/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *deck.App

	// flags
	description string
	status      string
	assignTo    string
	dueDate     string
	assignMe    bool
	jsonOutput  bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *deck.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a new task",
		UsageText: "taskdeck add <title> [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "desc",
				Usage:       "task description (markdown)",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "initial status (todo, in_progress, done)",
				Value:       "todo",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "assign",
				Usage:       "user id to assign the task to",
				Destination: &cmd.assignTo,
			},
			&cli.BoolFlag{
				Name:        "me",
				Usage:       "assign the task to yourself",
				Destination: &cmd.assignMe,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (" + task.DueDateLayout + ")",
				Destination: &cmd.dueDate,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created task as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("missing task title")
	}

	assignTo := cmd.assignTo
	if cmd.assignMe {
		assignTo = cmd.app.Tasks.CurrentUserID()
	}

	id, err := cmd.app.Tasks.Create(ctx, task.Draft{
		Title:       c.Args().First(),
		Description: cmd.description,
		Status:      cmd.status,
		AssignedTo:  assignTo,
		DueDate:     cmd.dueDate,
	})
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		if t, ok := cmd.app.Registry.Task(id); ok {
			return iojson.WriteLine(c.Root().Writer, t)
		}
	}

	fmt.Fprintf(c.Root().Writer, "created %s\n", id)
	return nil
}
