// Package notify derives the transient due-date notification set from
// registry state. Notifications are ephemeral and never persisted.
package notify

import "time"

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// MaxActive caps the active notification set.
const MaxActive = 5

// WelcomeID is the fixed id of the one-time session welcome notice.
const WelcomeID = "welcome"

// Notification is a single entry in the active set. The ID is derived
// deterministically from the triggering task plus a category suffix
// ("-due-soon", "-overdue"), so recomputation cycles dedupe instead of
// stacking. Timestamp orders entries and is never persisted.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
