package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps tasks in an in-memory slice in insertion order,
// mirroring the behavior of the Postgres store closely enough for
// service and handler tests.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, task *domain.Task) error
	ListByUserFn        func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	CompleteFn          func(ctx context.Context, userID, taskID uuid.UUID) error
	CountByStatusFn     func(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error)
	CountByPriorityFn   func(ctx context.Context, userID uuid.UUID) (map[domain.TaskPriority]int, error)
	ListOpenDueBeforeFn func(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Task, error)
	ListOpenDueOnFn     func(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Task, error)
	CountOpenOverdueFn  func(ctx context.Context, day time.Time) (int, error)

	// Data for default implementation
	Tasks       []*domain.Task
	CreateError error
	QueryError  error
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make([]*domain.Task, 0),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.Tasks = append(m.Tasks, task)
	return nil
}

// ListByUser implements the TaskStore interface
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	if m.QueryError != nil {
		return nil, m.QueryError
	}

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}

// Complete implements the TaskStore interface
func (m *MockTaskStore) Complete(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, userID, taskID)
	}

	if m.QueryError != nil {
		return m.QueryError
	}

	for _, task := range m.Tasks {
		if task.ID == taskID && task.UserID == userID {
			task.Status = domain.TaskStatusCompleted
			task.UpdatedAt = time.Now().UTC()
			return nil
		}
	}

	return store.ErrTaskNotFound
}

// CountByStatus implements the TaskStore interface
func (m *MockTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, userID)
	}

	if m.QueryError != nil {
		return nil, m.QueryError
	}

	counts := map[domain.TaskStatus]int{
		domain.TaskStatusPending:   0,
		domain.TaskStatusCompleted: 0,
	}
	for _, task := range m.Tasks {
		if task.UserID == userID {
			counts[task.Status]++
		}
	}

	return counts, nil
}

// CountByPriority implements the TaskStore interface
func (m *MockTaskStore) CountByPriority(ctx context.Context, userID uuid.UUID) (map[domain.TaskPriority]int, error) {
	if m.CountByPriorityFn != nil {
		return m.CountByPriorityFn(ctx, userID)
	}

	if m.QueryError != nil {
		return nil, m.QueryError
	}

	counts := map[domain.TaskPriority]int{
		domain.TaskPriorityLow:    0,
		domain.TaskPriorityMedium: 0,
		domain.TaskPriorityHigh:   0,
	}
	for _, task := range m.Tasks {
		if task.UserID == userID {
			counts[task.Priority]++
		}
	}

	return counts, nil
}

// ListOpenDueBefore implements the TaskStore interface
func (m *MockTaskStore) ListOpenDueBefore(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Task, error) {
	if m.ListOpenDueBeforeFn != nil {
		return m.ListOpenDueBeforeFn(ctx, userID, day)
	}

	if m.QueryError != nil {
		return nil, m.QueryError
	}

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID == userID && task.Status != domain.TaskStatusCompleted && task.DueDate.Before(day) {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}

// ListOpenDueOn implements the TaskStore interface
func (m *MockTaskStore) ListOpenDueOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Task, error) {
	if m.ListOpenDueOnFn != nil {
		return m.ListOpenDueOnFn(ctx, userID, day)
	}

	if m.QueryError != nil {
		return nil, m.QueryError
	}

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID == userID && task.Status != domain.TaskStatusCompleted && task.DueDate.Equal(day) {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}

// CountOpenOverdue implements the TaskStore interface
func (m *MockTaskStore) CountOpenOverdue(ctx context.Context, day time.Time) (int, error) {
	if m.CountOpenOverdueFn != nil {
		return m.CountOpenOverdueFn(ctx, day)
	}

	if m.QueryError != nil {
		return 0, m.QueryError
	}

	count := 0
	for _, task := range m.Tasks {
		if task.Status != domain.TaskStatusCompleted && task.DueDate.Before(day) {
			count++
		}
	}

	return count, nil
}
