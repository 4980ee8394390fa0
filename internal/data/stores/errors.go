package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/taskdeck/internal/core/task"
)

const (
	busyRetries   = 3
	busyRetryWait = 50 * time.Millisecond
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// execBusyRetry runs fn, retrying while SQLite reports the database locked.
// WAL mode and the busy_timeout pragma make this rare, but a writer in a
// second process can still surface SQLITE_BUSY. Any other error returns
// immediately.
func execBusyRetry(fn func() error) error {
	var err error
	for i := 0; i < busyRetries; i++ {
		err = fn()
		if !IsBusyError(err) {
			return err
		}
		time.Sleep(busyRetryWait)
	}
	return err
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// wrapStoreErr maps a database error onto the store error taxonomy:
// missing rows become task.ErrNotFound, everything else is a transient
// task.ErrUnavailable carrying the operation and the driver detail.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFoundError(err) {
		return fmt.Errorf("%s: %w", op, task.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, task.ErrUnavailable, err)
}
