package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every per-user operation is scoped by the owning user's ID; a caller
// can never observe or mutate another user's tasks through this interface.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListByUser retrieves all tasks owned by the given user in
	// insertion order. Returns an empty slice when the user has no tasks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Complete marks the task with the given ID as Completed, provided it
	// is owned by userID. The operation is idempotent: completing an
	// already-completed task succeeds silently.
	// Returns ErrTaskNotFound if no task with that ID is owned by userID.
	Complete(ctx context.Context, userID, taskID uuid.UUID) error

	// CountByStatus tallies the user's tasks per status.
	// Statuses with no tasks are present in the map with a zero count.
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error)

	// CountByPriority tallies the user's tasks per priority, independent
	// of status. Priorities with no tasks are present with a zero count.
	CountByPriority(ctx context.Context, userID uuid.UUID) (map[domain.TaskPriority]int, error)

	// ListOpenDueBefore retrieves the user's non-completed tasks whose due
	// date is strictly before the given day.
	ListOpenDueBefore(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Task, error)

	// ListOpenDueOn retrieves the user's non-completed tasks whose due
	// date equals the given day.
	ListOpenDueOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Task, error)

	// CountOpenOverdue counts non-completed tasks across all users whose
	// due date is strictly before the given day. Used by the reminder
	// scheduler; it is the only unscoped read in the interface.
	CountOpenOverdue(ctx context.Context, day time.Time) (int, error)
}
