package deck

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskdeck/internal/core/eventbus"
	"github.com/colonyops/taskdeck/internal/core/registry"
	"github.com/colonyops/taskdeck/internal/core/task"
)

// TaskService is the write path for tasks. Reads go through the registry,
// which the service keeps current from store snapshots.
type TaskService struct {
	store    task.Store
	registry *registry.Registry
	bus      *eventbus.EventBus
	notifier *Notifier
	log      zerolog.Logger
	userID   string

	unsubs []task.UnsubscribeFunc
}

// NewTaskService creates a task service bound to the session user.
func NewTaskService(
	store task.Store,
	reg *registry.Registry,
	bus *eventbus.EventBus,
	notifier *Notifier,
	userID string,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		store:    store,
		registry: reg,
		bus:      bus,
		notifier: notifier,
		log:      log.With().Str("component", "task-service").Logger(),
		userID:   userID,
	}
}

// Start attaches the service to the store's snapshot streams. Each snapshot
// replaces the registry contents wholesale before anything is announced on
// the bus, so bus subscribers always read consistent state.
func (s *TaskService) Start() {
	s.unsubs = append(s.unsubs, s.store.SubscribeTasks(func(tasks []task.Task) {
		s.registry.ApplyTaskSnapshot(tasks)
		s.bus.PublishTasksUpdated(eventbus.TasksUpdatedPayload{Tasks: tasks})
		s.notifier.Refresh(tasks)
	}))

	s.unsubs = append(s.unsubs, s.store.SubscribeUsers(func(users []task.User) {
		s.registry.ApplyUserSnapshot(users)
		s.bus.PublishUsersUpdated(eventbus.UsersUpdatedPayload{Users: users})
	}))
}

// Stop detaches the service from the store.
func (s *TaskService) Stop() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

// Create validates the draft and persists a new task. Returns the new task
// id.
func (s *TaskService) Create(ctx context.Context, draft task.Draft) (string, error) {
	payload, err := task.ValidateDraft(draft)
	if err != nil {
		return "", err
	}

	id, err := s.store.CreateTask(ctx, payload, s.userID)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	s.log.Info().Str("task_id", id).Str("title", payload.Title).Msg("task created")
	return id, nil
}

// Update validates the draft and replaces the task's editable fields.
func (s *TaskService) Update(ctx context.Context, id string, draft task.Draft) error {
	payload, err := task.ValidateDraft(draft)
	if err != nil {
		return err
	}

	if err := s.store.UpdateTask(ctx, id, task.FromPayload(payload)); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	s.log.Info().Str("task_id", id).Msg("task updated")
	return nil
}

// Move transitions a task to a new status. Moving a task onto the status it
// already has is a no-op and touches nothing, so dropping a card back into
// its own column never writes.
func (s *TaskService) Move(ctx context.Context, id string, statusStr string) error {
	status, err := task.ParseStatus(statusStr)
	if err != nil {
		return err
	}

	current, ok := s.registry.Task(id)
	if !ok {
		return fmt.Errorf("move task: %w", task.ErrNotFound)
	}

	if current.Status == status {
		return nil
	}

	if err := s.store.UpdateTask(ctx, id, task.Patch{Status: &status}); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	s.log.Info().
		Str("task_id", id).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("task moved")
	return nil
}

// Delete removes a task permanently.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.log.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// EnsureCurrentUser registers the session user in the store under their
// generated display name. Safe to call on every startup.
func (s *TaskService) EnsureCurrentUser(ctx context.Context) error {
	if err := s.store.EnsureUser(ctx, s.userID, task.DisplayName(s.userID)); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// CurrentUserID returns the session user's id.
func (s *TaskService) CurrentUserID() string {
	return s.userID
}

// IsValidationError reports whether err carries field-level validation
// failures rather than a store failure.
func IsValidationError(err error) bool {
	var fieldErrs criterio.FieldErrors
	return errors.As(err, &fieldErrs)
}
