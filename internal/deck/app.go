package deck

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskdeck/internal/core/config"
	"github.com/colonyops/taskdeck/internal/core/eventbus"
	"github.com/colonyops/taskdeck/internal/core/registry"
	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/data/db"
	"github.com/colonyops/taskdeck/internal/data/stores"
)

const busBuffer = 64

// App is the central entry point for all taskdeck operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks    *TaskService
	Notifier *Notifier

	Config   *config.Config
	Registry *registry.Registry
	Bus      *eventbus.EventBus
	Store    task.Store
	Log      zerolog.Logger

	cancel context.CancelFunc
}

// NewApp opens the configured store backend and wires the services. Nothing
// is subscribed until Start, so the session identity is always loaded before
// the first snapshot arrives.
func NewApp(cfg *config.Config, userID string, log zerolog.Logger) (*App, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	bus := eventbus.New(busBuffer, log)
	notifier := NewNotifier(bus, userID, log)
	tasks := NewTaskService(store, reg, bus, notifier, userID, log)

	return &App{
		Tasks:    tasks,
		Notifier: notifier,
		Config:   cfg,
		Registry: reg,
		Bus:      bus,
		Store:    store,
		Log:      log,
	}, nil
}

// Start launches the bus dispatcher, registers the session user, and
// attaches the services to the store's snapshot streams.
func (a *App) Start(ctx context.Context) error {
	busCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Bus.Start(busCtx)

	if err := a.Tasks.EnsureCurrentUser(ctx); err != nil {
		cancel()
		return err
	}

	a.Tasks.Start()
	return nil
}

// Close detaches subscriptions, stops the bus, and closes the store.
func (a *App) Close() error {
	a.Tasks.Stop()
	if a.cancel != nil {
		a.cancel()
		a.Bus.Wait()
	}
	return a.Store.Close()
}

func openStore(cfg *config.Config, log zerolog.Logger) (task.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DataDir, db.DefaultOpenOptions())
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return stores.NewSQLiteStore(database, log), nil

	case config.BackendJSONFile:
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(cfg.DataDir, "board.json")
		}
		store, err := stores.NewJSONStore(path, log)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		return store, nil

	case config.BackendMemory:
		return stores.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
