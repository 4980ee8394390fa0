package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGrid(t *testing.T) {
	t.Run("leading blanks match first weekday", func(t *testing.T) {
		// September 2026 starts on a Tuesday.
		grid := monthGrid(2026, time.September)
		require.NotEmpty(t, grid)

		first := grid[0]
		assert.Zero(t, first[0]) // Sunday
		assert.Zero(t, first[1]) // Monday
		assert.Equal(t, 1, first[2])
		assert.Equal(t, 5, first[6])
	})

	t.Run("all days present exactly once", func(t *testing.T) {
		grid := monthGrid(2026, time.February)

		seen := make(map[int]bool)
		for _, week := range grid {
			for _, day := range week {
				if day == 0 {
					continue
				}
				assert.False(t, seen[day], "day %d appears twice", day)
				seen[day] = true
			}
		}
		assert.Len(t, seen, 28)
	})

	t.Run("trailing cells of the last week are blank", func(t *testing.T) {
		// June 2026 ends on a Tuesday.
		grid := monthGrid(2026, time.June)
		last := grid[len(grid)-1]

		assert.Equal(t, 30, last[2])
		assert.Zero(t, last[3])
		assert.Zero(t, last[6])
	})
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, daysInMonth(2026, time.January))
	assert.Equal(t, 28, daysInMonth(2026, time.February))
	assert.Equal(t, 29, daysInMonth(2028, time.February)) // leap year
	assert.Equal(t, 30, daysInMonth(2026, time.April))
}
