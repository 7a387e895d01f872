// Package service contains the stateless business rules that sit between
// the HTTP surface and the stores.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
)

// TaskStats aggregates a user's task counts.
// Pending + Completed always equals the user's total task count, and the
// priority buckets tally independently of status.
type TaskStats struct {
	Completed  int
	Pending    int
	ByPriority map[domain.TaskPriority]int
}

// TaskReminders groups a user's open tasks by urgency relative to today.
// Completed tasks never appear in either list.
type TaskReminders struct {
	Overdue []*domain.Task
	Today   []*domain.Task
}

// TaskService provides task-related operations.
// Every operation takes the authenticated user's ID as an implicit scoping
// parameter; a user can only ever observe or mutate their own tasks.
type TaskService interface {
	// CreateTask creates a new Pending task for the user.
	// The due date must be a calendar date in YYYY-MM-DD form; returns
	// domain.ErrInvalidDueDate otherwise. Returns domain.ErrInvalidPriority
	// for priorities outside Low/Medium/High.
	CreateTask(ctx context.Context, userID uuid.UUID, title, priority, dueDate string) (*domain.Task, error)

	// ListTasks returns all tasks owned by the user in insertion order.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// CompleteTask marks the given task as Completed, idempotently.
	// Returns store.ErrTaskNotFound if no task with that ID is owned by the user.
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// Stats computes the user's per-status and per-priority task counts.
	Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error)

	// Reminders returns the user's open tasks that are overdue or due today.
	Reminders(ctx context.Context, userID uuid.UUID) (*TaskReminders, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
	timeFunc  func() time.Time // Injectable for testing
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService backed by the given store.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
		timeFunc:  time.Now,
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	title, priority, dueDate string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	parsedPriority, err := domain.ParsePriority(priority)
	if err != nil {
		log.Debug("task creation rejected: bad priority",
			slog.String("user_id", userID.String()))
		return nil, err
	}

	parsedDue, err := domain.ParseDueDate(dueDate)
	if err != nil {
		log.Debug("task creation rejected: bad due date",
			slog.String("user_id", userID.String()))
		return nil, err
	}

	task, err := domain.NewTask(userID, title, parsedPriority, parsedDue)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.taskStore.ListByUser(ctx, userID)
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.taskStore.Complete(ctx, userID, taskID)
}

// Stats implements TaskService.Stats
func (s *taskServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error) {
	statusCounts, err := s.taskStore.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	priorityCounts, err := s.taskStore.CountByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TaskStats{
		Completed:  statusCounts[domain.TaskStatusCompleted],
		Pending:    statusCounts[domain.TaskStatusPending],
		ByPriority: priorityCounts,
	}, nil
}

// Reminders implements TaskService.Reminders
func (s *taskServiceImpl) Reminders(ctx context.Context, userID uuid.UUID) (*TaskReminders, error) {
	today := s.today()

	overdue, err := s.taskStore.ListOpenDueBefore(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	dueToday, err := s.taskStore.ListOpenDueOn(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	return &TaskReminders{
		Overdue: overdue,
		Today:   dueToday,
	}, nil
}

// today truncates the current time to a calendar date in UTC, matching the
// DATE column the due dates are stored in.
func (s *taskServiceImpl) today() time.Time {
	now := s.timeFunc().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
