package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner   = errors.New("task owner cannot be empty")
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title must be at most 120 characters long")
)

// maxTitleLength matches the column width of the tasks table.
const maxTitleLength = 120

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses. Tasks start Pending and may only move to Completed.
const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusCompleted TaskStatus = "Completed"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// TaskPriority represents the urgency bucket of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

// ParsePriority converts a string into a TaskPriority.
// Returns ErrInvalidPriority for anything outside Low/Medium/High.
func ParsePriority(s string) (TaskPriority, error) {
	p := TaskPriority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// ParseDueDate parses a calendar date in YYYY-MM-DD form.
// Returns ErrInvalidDueDate for any other input.
func ParseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return t, nil
}

// Task represents a single to-do item owned by exactly one user.
// The owner is immutable after creation; only the status ever changes.
type Task struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Title     string       `json:"title"`
	Status    TaskStatus   `json:"status"`
	Priority  TaskPriority `json:"priority"`
	DueDate   time.Time    `json:"due_date"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewTask creates a new Pending task for the given owner.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string, priority TaskPriority, dueDate time.Time) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    TaskStatusPending,
		Priority:  priority,
		DueDate:   dueDate,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > maxTitleLength {
		return ErrTaskTitleTooLong
	}

	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}

	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}

	if t.DueDate.IsZero() {
		return ErrInvalidDueDate
	}

	return nil
}
