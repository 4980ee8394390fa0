package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// DueDateLayout is the accepted date-only input format for due dates.
const DueDateLayout = "2006-01-02"

// Draft is raw editor input for creating or updating a task. All fields are
// strings as they arrive from a form or CLI flag; ValidateDraft normalizes
// them into a Payload.
type Draft struct {
	Title       string
	Description string
	Status      string
	AssignedTo  string
	DueDate     string
}

// ValidateDraft validates and normalizes a draft. Title and description are
// trimmed; an empty title is rejected. A due date must parse as YYYY-MM-DD.
// An empty assignee means unassigned, and an absent status defaults to todo.
// Validation failures are field-scoped criterio errors and are rejected
// before any store call is made.
func ValidateDraft(d Draft) (Payload, error) {
	title := strings.TrimSpace(d.Title)
	due := strings.TrimSpace(d.DueDate)
	rawStatus := strings.TrimSpace(d.Status)

	err := criterio.ValidateStruct(
		criterio.Run("title", title, requireNonEmpty),
		criterio.Run("due_date", due, dateParseable),
		criterio.Run("status", rawStatus, statusKnown),
	)
	if err != nil {
		return Payload{}, err
	}

	p := Payload{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Status:      StatusTodo,
		AssignedTo:  strings.TrimSpace(d.AssignedTo),
	}

	if rawStatus != "" {
		p.Status = Status(rawStatus)
	}

	if due != "" {
		t, _ := time.Parse(DueDateLayout, due)
		p.DueDate = &t
	}

	return p, nil
}

func requireNonEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func dateParseable(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DueDateLayout, s); err != nil {
		return fmt.Errorf("not a valid date, expected YYYY-MM-DD")
	}
	return nil
}

func statusKnown(s string) error {
	if s == "" {
		return nil // defaults to todo
	}
	if !Status(s).IsValid() {
		return fmt.Errorf("must be one of todo, in_progress, done")
	}
	return nil
}
