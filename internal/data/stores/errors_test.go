package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/taskdeck/internal/core/task"
)

func TestIsBusyError(t *testing.T) {
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(errors.New("database is locked")))
	assert.False(t, IsBusyError(sql.ErrNoRows))
}

func TestExecBusyRetry(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		err := execBusyRetry(func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("non-busy errors return immediately", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("constraint failed")
		err := execBusyRetry(func() error {
			calls++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})
}

func TestWrapStoreErr(t *testing.T) {
	assert.NoError(t, wrapStoreErr("get task", nil))

	err := wrapStoreErr("get task", sql.ErrNoRows)
	assert.ErrorIs(t, err, task.ErrNotFound)

	err = wrapStoreErr("list tasks", fmt.Errorf("disk I/O error"))
	assert.ErrorIs(t, err, task.ErrUnavailable)
}
