package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/colonyops/taskdeck/internal/core/task"
)

// dueSoonWindow is how far ahead of a deadline the due-soon warning fires.
const dueSoonWindow = 24 * time.Hour

// Deriver computes the active notification set from task state. Given the
// same arguments and welcome state, Derive is deterministic: the clock is an
// explicit parameter and is never read internally.
type Deriver struct {
	welcomed bool
}

// NewDeriver returns a deriver whose welcome notice has not fired yet.
func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive evaluates every task assigned to currentUserID that is not done and
// carries a due date, emitting a warning when the deadline is within the
// next 24 hours and an error once it has passed. The two are mutually
// exclusive per task per evaluation.
//
// The welcome notice fires at most once per session, the first time Derive
// runs with any tasks present. It deliberately does not re-arm when the
// active set later drains; re-deriving the same inputs must not resurrect it.
//
// New entries are merged with prev by id (new wins), ordered newest first,
// and truncated to MaxActive.
func (d *Deriver) Derive(tasks []task.Task, currentUserID string, now time.Time, prev []Notification) []Notification {
	var fresh []Notification
	supersede := make(map[string]bool)

	for _, t := range tasks {
		if t.AssignedTo != currentUserID || t.Status == task.StatusDone || t.DueDate == nil {
			continue
		}

		// A task is either upcoming or overdue at a given instant, never
		// both: whichever fires also retires the counterpart entry left
		// over from an earlier evaluation.
		supersede[t.ID+"-due-soon"] = true
		supersede[t.ID+"-overdue"] = true

		until := t.DueDate.Sub(now)
		switch {
		case until > 0 && until <= dueSoonWindow:
			fresh = append(fresh, Notification{
				ID:        t.ID + "-due-soon",
				Level:     LevelWarning,
				Message:   fmt.Sprintf("Task %q is due soon (%s)", t.Title, t.DueDate.Format("Jan 2, 2006")),
				Timestamp: now,
			})
		case until <= 0:
			fresh = append(fresh, Notification{
				ID:        t.ID + "-overdue",
				Level:     LevelError,
				Message:   fmt.Sprintf("Task %q is overdue", t.Title),
				Timestamp: now,
			})
		}
	}

	if !d.welcomed && len(tasks) > 0 {
		d.welcomed = true
		fresh = append(fresh, Notification{
			ID:        WelcomeID,
			Level:     LevelInfo,
			Message:   fmt.Sprintf("Welcome, %s. Your tasks are loaded.", task.DisplayName(currentUserID)),
			Timestamp: now,
		})
	}

	kept := prev[:0:0]
	for _, n := range prev {
		if !supersede[n.ID] {
			kept = append(kept, n)
		}
	}

	return Merge(kept, fresh)
}

// Merge combines previous and fresh notifications, deduplicating by id with
// fresh entries winning, ordering by timestamp descending, and truncating to
// MaxActive.
func Merge(prev, fresh []Notification) []Notification {
	replaced := make(map[string]bool, len(fresh))
	for _, n := range fresh {
		replaced[n.ID] = true
	}

	combined := make([]Notification, 0, len(prev)+len(fresh))
	combined = append(combined, fresh...)
	for _, n := range prev {
		if !replaced[n.ID] {
			combined = append(combined, n)
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Timestamp.After(combined[j].Timestamp)
	})

	if len(combined) > MaxActive {
		combined = combined[:MaxActive]
	}
	return combined
}
