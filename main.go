package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskdeck/internal/commands"
	"github.com/colonyops/taskdeck/internal/core/config"
	"github.com/colonyops/taskdeck/internal/deck"
	"github.com/colonyops/taskdeck/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls
	// back to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		deckApp   = &deck.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "taskdeck",
		Usage:     "Track tasks from a shared board",
		UsageText: "taskdeck [global options] command [command options]",
		Description: `Taskdeck keeps a small team's tasks in one place. Cards move across a
kanban board, show up in a personal list, and land on a calendar by due
date. Due-soon and overdue tasks surface as notifications.

Run 'taskdeck' with no arguments to open the interactive board.
Run 'taskdeck add' to create a task from the command line.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKDECK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("TASKDECK_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKDECK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKDECK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = &cfg

			userID, err := config.LoadIdentity(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load identity: %w", err)
			}

			app, err := deck.NewApp(&cfg, userID, log.With().Str("component", "deck").Logger())
			if err != nil {
				return ctx, fmt.Errorf("open store: %w", err)
			}
			if err := app.Start(ctx); err != nil {
				return ctx, fmt.Errorf("start app: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*deckApp = *app

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if deckApp.Store != nil {
				if err := deckApp.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close app")
				}
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, deckApp)

	app = commands.NewAddCmd(flags, deckApp).Register(app)
	app = commands.NewLsCmd(flags, deckApp).Register(app)
	app = commands.NewShowCmd(flags, deckApp).Register(app)
	app = commands.NewMoveCmd(flags, deckApp).Register(app)
	app = commands.NewRmCmd(flags, deckApp).Register(app)
	app = commands.NewNotifyCmd(flags, deckApp).Register(app)
	app = commands.NewWhoamiCmd(flags, deckApp).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)
	app = tuiCmd.Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskdeck --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
