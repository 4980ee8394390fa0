package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskdeck/internal/core/task"
	"github.com/colonyops/taskdeck/internal/data/db"
	"github.com/colonyops/taskdeck/pkg/randid"
)

// SQLiteStore implements task.Store on a local SQLite database. Every
// mutation re-reads the affected collection and fans a complete snapshot
// out to subscribers, mirroring the snapshot contract of a hosted
// real-time document store.
type SQLiteStore struct {
	db    *db.DB
	log   zerolog.Logger
	tasks *hub[task.Task]
	users *hub[task.User]
}

var _ task.Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a SQLite-backed task store.
func NewSQLiteStore(database *db.DB, log zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:    database,
		log:   log.With().Str("component", "sqlite-store").Logger(),
		tasks: newHub[task.Task](),
		users: newHub[task.User](),
	}
}

// SubscribeTasks registers fn and immediately delivers the current task
// collection, matching the initial-snapshot behavior of real-time listeners.
func (s *SQLiteStore) SubscribeTasks(fn func([]task.Task)) task.UnsubscribeFunc {
	unsub, err := s.tasks.subscribeAndDeliver(fn, func() ([]task.Task, error) {
		return s.readTasks(context.Background())
	})
	if err != nil {
		s.log.Error().Err(err).Msg("initial task snapshot failed")
	}
	return unsub
}

// SubscribeUsers registers fn and immediately delivers the current user
// collection.
func (s *SQLiteStore) SubscribeUsers(fn func([]task.User)) task.UnsubscribeFunc {
	unsub, err := s.users.subscribeAndDeliver(fn, func() ([]task.User, error) {
		return s.readUsers(context.Background())
	})
	if err != nil {
		s.log.Error().Err(err).Msg("initial user snapshot failed")
	}
	return unsub
}

// CreateTask persists a new task and returns its generated id.
func (s *SQLiteStore) CreateTask(ctx context.Context, p task.Payload, createdBy string) (string, error) {
	id := randid.Generate(8)
	now := time.Now()

	err := execBusyRetry(func() error {
		_, err := s.db.Conn().ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, status, assigned_to, due_date, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Title, p.Description, string(p.Status),
			toNullString(p.AssignedTo), toNullTime(p.DueDate),
			createdBy, now.UnixNano(), now.UnixNano(),
		)
		return err
	})
	if err != nil {
		return "", wrapStoreErr("create task", err)
	}

	s.broadcastTasks(ctx)
	return id, nil
}

// UpdateTask applies a partial update. Returns task.ErrNotFound when the id
// no longer exists.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, patch task.Patch) error {
	if err := s.taskExists(ctx, id); err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UnixNano()}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.AssignedTo != nil {
		sets = append(sets, "assigned_to = ?")
		args = append(args, toNullString(*patch.AssignedTo))
	}
	switch {
	case patch.ClearDueDate:
		sets = append(sets, "due_date = NULL")
	case patch.DueDate != nil:
		sets = append(sets, "due_date = ?")
		args = append(args, patch.DueDate.UnixNano())
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(sets, ", "))

	err := execBusyRetry(func() error {
		_, err := s.db.Conn().ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return wrapStoreErr("update task", err)
	}

	s.broadcastTasks(ctx)
	return nil
}

// DeleteTask removes a task. Returns task.ErrNotFound when the id no longer
// exists.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskExists(ctx, id); err != nil {
		return err
	}

	err := execBusyRetry(func() error {
		_, err := s.db.Conn().ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
		return err
	})
	if err != nil {
		return wrapStoreErr("delete task", err)
	}

	s.broadcastTasks(ctx)
	return nil
}

// EnsureUser creates the user record if absent. INSERT OR IGNORE makes the
// check-then-create race benign: concurrent first-sightings converge on one
// row with no error.
func (s *SQLiteStore) EnsureUser(ctx context.Context, id, name string) error {
	var res sql.Result
	err := execBusyRetry(func() error {
		var err error
		res, err = s.db.Conn().ExecContext(ctx, `
			INSERT OR IGNORE INTO users (id, name, created_at) VALUES (?, ?, ?)`,
			id, name, time.Now().UnixNano(),
		)
		return err
	})
	if err != nil {
		return wrapStoreErr("ensure user", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.broadcastUsers(ctx)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) taskExists(ctx context.Context, id string) error {
	var one int
	err := s.db.Conn().QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", id).Scan(&one)
	return wrapStoreErr("get task", err)
}

func (s *SQLiteStore) broadcastTasks(ctx context.Context) {
	snapshot, err := s.readTasks(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("task snapshot after mutation failed")
		return
	}
	s.tasks.publish(snapshot)
}

func (s *SQLiteStore) broadcastUsers(ctx context.Context) {
	snapshot, err := s.readUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("user snapshot after mutation failed")
		return
	}
	s.users.publish(snapshot)
}

func (s *SQLiteStore) readTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, title, description, status, assigned_to, due_date, created_by, created_at, updated_at
		FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, wrapStoreErr("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		var (
			t          task.Task
			status     string
			assignedTo sql.NullString
			dueDate    sql.NullInt64
			createdAt  int64
			updatedAt  int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &assignedTo, &dueDate, &t.CreatedBy, &createdAt, &updatedAt); err != nil {
			return nil, wrapStoreErr("scan task", err)
		}

		t.Status = task.Status(status)
		t.AssignedTo = assignedTo.String
		if dueDate.Valid {
			// Due dates are stored as UTC midnight. Reading them back in
			// local time would shift the calendar day west of UTC.
			due := time.Unix(0, dueDate.Int64).UTC()
			t.DueDate = &due
		}
		t.CreatedAt = time.Unix(0, createdAt).UTC()
		t.UpdatedAt = time.Unix(0, updatedAt).UTC()

		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list tasks", err)
	}

	return tasks, nil
}

func (s *SQLiteStore) readUsers(ctx context.Context) ([]task.User, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT id, name, created_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, wrapStoreErr("list users", err)
	}
	defer rows.Close()

	users := make([]task.User, 0)
	for rows.Next() {
		var (
			u         task.User
			createdAt int64
		)
		if err := rows.Scan(&u.ID, &u.Name, &createdAt); err != nil {
			return nil, wrapStoreErr("scan user", err)
		}
		u.CreatedAt = time.Unix(0, createdAt).UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list users", err)
	}

	return users, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}
