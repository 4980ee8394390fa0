package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/deck"
	"github.com/colonyops/taskdeck/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *deck.App

	// flags
	status     string
	mine       bool
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *deck.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "taskdeck ls [--status <status>] [--mine] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Usage:       "only show tasks with this status",
				Destination: &cmd.status,
			},
			&cli.BoolFlag{
				Name:        "mine",
				Usage:       "only show tasks assigned to you",
				Destination: &cmd.mine,
			},
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

func (cmd *LsCmd) run(_ context.Context, c *cli.Command) error {
	tasks, err := cmd.selectTasks()
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "No tasks found")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tASSIGNEE\tDUE")

	for _, t := range tasks {
		assignee := "-"
		if t.AssignedTo != "" {
			assignee = cmd.userName(t.AssignedTo)
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format(task.DueDateLayout)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Title, assignee, due)
	}

	return w.Flush()
}

func (cmd *LsCmd) selectTasks() ([]task.Task, error) {
	reg := cmd.app.Registry

	var tasks []task.Task
	switch {
	case cmd.status != "":
		status, err := task.ParseStatus(cmd.status)
		if err != nil {
			return nil, err
		}
		tasks = reg.TasksByStatus(status)
	case cmd.mine:
		tasks = reg.TasksAssignedTo(cmd.app.Tasks.CurrentUserID())
	default:
		tasks = reg.Tasks()
	}

	if cmd.mine && cmd.status != "" {
		me := cmd.app.Tasks.CurrentUserID()
		kept := tasks[:0]
		for _, t := range tasks {
			if t.AssignedTo == me {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}

	return tasks, nil
}

func (cmd *LsCmd) userName(id string) string {
	if u, ok := cmd.app.Registry.User(id); ok {
		return u.Name
	}
	return task.DisplayName(id)
}
