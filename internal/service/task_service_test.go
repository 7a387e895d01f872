package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/mocks"
	"github.com/phrazzld/taskward/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService builds a task service over a fresh mock store with a fixed
// clock so reminder bucketing is deterministic.
func newTestService(t *testing.T, now time.Time) (TaskService, *mocks.MockTaskStore) {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	svc, err := NewTaskService(taskStore, nil)
	require.NoError(t, err)

	svc.(*taskServiceImpl).timeFunc = func() time.Time { return now }
	return svc, taskStore
}

// mustCreate inserts a task directly into the mock store.
func mustCreate(
	t *testing.T,
	taskStore *mocks.MockTaskStore,
	userID uuid.UUID,
	title string,
	priority domain.TaskPriority,
	dueDate time.Time,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, priority, dueDate)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(context.Background(), task))
	return task
}

func TestNewTaskService(t *testing.T) {
	t.Parallel()

	svc, err := NewTaskService(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, svc)

	svc, err = NewTaskService(mocks.NewMockTaskStore(), nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	tests := []struct {
		name     string
		title    string
		priority string
		dueDate  string
		wantErr  error
	}{
		{
			name:     "valid task",
			title:    "Write report",
			priority: "High",
			dueDate:  "2026-09-15",
			wantErr:  nil,
		},
		{
			name:     "invalid priority",
			title:    "Write report",
			priority: "Urgent",
			dueDate:  "2026-09-15",
			wantErr:  domain.ErrInvalidPriority,
		},
		{
			name:     "invalid due date",
			title:    "Write report",
			priority: "Low",
			dueDate:  "next tuesday",
			wantErr:  domain.ErrInvalidDueDate,
		},
		{
			name:     "empty title",
			title:    "",
			priority: "Low",
			dueDate:  "2026-09-15",
			wantErr:  domain.ErrEmptyTaskTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, taskStore := newTestService(t, now)

			task, err := svc.CreateTask(context.Background(), userID, tt.title, tt.priority, tt.dueDate)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				assert.Empty(t, taskStore.Tasks)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Equal(t, domain.TaskStatusPending, task.Status)
			assert.Equal(t, userID, task.UserID)
			assert.Len(t, taskStore.Tasks, 1)
		})
	}
}

func TestCreateTaskStoreFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	svc, taskStore := newTestService(t, now)
	taskStore.CreateError = errors.New("connection lost")

	task, err := svc.CreateTask(context.Background(), uuid.New(), "Write report", "Low", "2026-09-15")
	assert.Error(t, err)
	assert.Nil(t, task)
}

func TestListTasksIsolatedPerUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	svc, taskStore := newTestService(t, now)

	alice := uuid.New()
	bob := uuid.New()
	due := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	first := mustCreate(t, taskStore, alice, "First", domain.TaskPriorityLow, due)
	mustCreate(t, taskStore, bob, "Bob's task", domain.TaskPriorityHigh, due)
	second := mustCreate(t, taskStore, alice, "Second", domain.TaskPriorityMedium, due)

	tasks, err := svc.ListTasks(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)

	// A user with no tasks gets an empty slice, not nil
	tasks, err = svc.ListTasks(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCompleteTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	svc, taskStore := newTestService(t, now)

	alice := uuid.New()
	bob := uuid.New()
	due := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	task := mustCreate(t, taskStore, alice, "Finish", domain.TaskPriorityLow, due)

	t.Run("completes a pending task", func(t *testing.T) {
		err := svc.CompleteTask(context.Background(), alice, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	})

	t.Run("completing again is idempotent", func(t *testing.T) {
		err := svc.CompleteTask(context.Background(), alice, task.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown task returns not found", func(t *testing.T) {
		err := svc.CompleteTask(context.Background(), alice, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("another user's task is invisible", func(t *testing.T) {
		err := svc.CompleteTask(context.Background(), bob, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	svc, taskStore := newTestService(t, now)

	userID := uuid.New()
	due := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	mustCreate(t, taskStore, userID, "One", domain.TaskPriorityLow, due)
	mustCreate(t, taskStore, userID, "Two", domain.TaskPriorityHigh, due)
	completed := mustCreate(t, taskStore, userID, "Three", domain.TaskPriorityHigh, due)
	require.NoError(t, svc.CompleteTask(context.Background(), userID, completed.ID))

	// Another user's tasks must not leak into the counts
	mustCreate(t, taskStore, uuid.New(), "Elsewhere", domain.TaskPriorityMedium, due)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.ByPriority[domain.TaskPriorityLow])
	assert.Equal(t, 0, stats.ByPriority[domain.TaskPriorityMedium])
	assert.Equal(t, 2, stats.ByPriority[domain.TaskPriorityHigh])
}

func TestStatsEmptyUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	stats, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Completed)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.ByPriority[domain.TaskPriorityLow])
	assert.Equal(t, 0, stats.ByPriority[domain.TaskPriorityMedium])
	assert.Equal(t, 0, stats.ByPriority[domain.TaskPriorityHigh])
}

func TestReminders(t *testing.T) {
	t.Parallel()

	// Fixed clock: "today" is 2026-08-31
	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC)
	svc, taskStore := newTestService(t, now)

	userID := uuid.New()
	yesterday := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	overdue := mustCreate(t, taskStore, userID, "Overdue", domain.TaskPriorityHigh, yesterday)
	dueToday := mustCreate(t, taskStore, userID, "Due today", domain.TaskPriorityMedium, today)
	mustCreate(t, taskStore, userID, "Due tomorrow", domain.TaskPriorityLow, tomorrow)

	// Completed tasks never appear, even when overdue
	doneOverdue := mustCreate(t, taskStore, userID, "Done overdue", domain.TaskPriorityLow, yesterday)
	require.NoError(t, svc.CompleteTask(context.Background(), userID, doneOverdue.ID))

	// Another user's overdue task is invisible
	mustCreate(t, taskStore, uuid.New(), "Other user overdue", domain.TaskPriorityHigh, yesterday)

	reminders, err := svc.Reminders(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, reminders.Overdue, 1)
	assert.Equal(t, overdue.ID, reminders.Overdue[0].ID)

	require.Len(t, reminders.Today, 1)
	assert.Equal(t, dueToday.ID, reminders.Today[0].ID)
}

func TestRemindersEmpty(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	reminders, err := svc.Reminders(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, reminders.Overdue)
	assert.Empty(t, reminders.Today)
}
