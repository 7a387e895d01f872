package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owning user doesn't exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return MapError(err)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("priority", string(task.Priority)))
	return nil
}

// ListByUser implements store.TaskStore.ListByUser
// It retrieves all tasks owned by the given user in insertion order.
// Returns an empty slice when the user has no tasks.
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, title, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	return s.queryTasks(ctx, query, userID)
}

// Complete implements store.TaskStore.Complete
// It sets the task's status to Completed, scoped to the owning user.
// The WHERE clause does not filter on the current status, so completing an
// already-completed task matches the row again and succeeds silently.
// Returns store.ErrTaskNotFound if no task with that ID is owned by userID.
func (s *PostgresTaskStore) Complete(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		domain.TaskStatusCompleted,
		time.Now().UTC(),
		taskID,
		userID,
	)

	if err != nil {
		log.Error("failed to complete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found for completion",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return store.ErrTaskNotFound
		}
		return err
	}

	log.Info("task completed",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// CountByStatus implements store.TaskStore.CountByStatus
// It tallies the user's tasks per status. Statuses with no tasks are
// present in the map with a zero count.
func (s *PostgresTaskStore) CountByStatus(
	ctx context.Context,
	userID uuid.UUID,
) (map[domain.TaskStatus]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to count tasks by status",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	counts := map[domain.TaskStatus]int{
		domain.TaskStatusPending:   0,
		domain.TaskStatusCompleted: 0,
	}

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			log.Error("failed to scan status count row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		counts[domain.TaskStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning status count rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return counts, nil
}

// CountByPriority implements store.TaskStore.CountByPriority
// It tallies the user's tasks per priority, independent of status.
// Priorities with no tasks are present in the map with a zero count.
func (s *PostgresTaskStore) CountByPriority(
	ctx context.Context,
	userID uuid.UUID,
) (map[domain.TaskPriority]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT priority, COUNT(*)
		FROM tasks
		WHERE user_id = $1
		GROUP BY priority
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to count tasks by priority",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	counts := map[domain.TaskPriority]int{
		domain.TaskPriorityLow:    0,
		domain.TaskPriorityMedium: 0,
		domain.TaskPriorityHigh:   0,
	}

	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			log.Error("failed to scan priority count row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		counts[domain.TaskPriority(priority)] = count
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning priority count rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return counts, nil
}

// ListOpenDueBefore implements store.TaskStore.ListOpenDueBefore
// It retrieves the user's non-completed tasks whose due date is strictly
// before the given day.
func (s *PostgresTaskStore) ListOpenDueBefore(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, title, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND status <> $2 AND due_date < $3
		ORDER BY due_date ASC
	`

	return s.queryTasks(ctx, query, userID, domain.TaskStatusCompleted, day)
}

// ListOpenDueOn implements store.TaskStore.ListOpenDueOn
// It retrieves the user's non-completed tasks whose due date equals the
// given day.
func (s *PostgresTaskStore) ListOpenDueOn(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, title, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND status <> $2 AND due_date = $3
		ORDER BY created_at ASC
	`

	return s.queryTasks(ctx, query, userID, domain.TaskStatusCompleted, day)
}

// CountOpenOverdue implements store.TaskStore.CountOpenOverdue
// It counts non-completed tasks across all users whose due date is strictly
// before the given day. Used by the reminder scheduler.
func (s *PostgresTaskStore) CountOpenOverdue(ctx context.Context, day time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM tasks
		WHERE status <> $1 AND due_date < $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, domain.TaskStatusCompleted, day).Scan(&count)
	if err != nil {
		log.Error("failed to count overdue tasks",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return count, nil
}

// queryTasks runs a task SELECT and scans the result rows.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		var status, priority string

		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&status,
			&priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		task.Status = domain.TaskStatus(status)
		task.Priority = domain.TaskPriority(priority)
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning task rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	return tasks, nil
}

// closeRows closes rows and logs the error if closing fails.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
