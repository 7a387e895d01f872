package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskward/internal/store"
	"github.com/stretchr/testify/assert"
)

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows    int64
	rowsErr error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.rowsErr }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "nil error",
			err:     nil,
			wantErr: nil,
		},
		{
			name:    "no rows maps to not found",
			err:     sql.ErrNoRows,
			wantErr: store.ErrNotFound,
		},
		{
			name:    "unique violation maps to duplicate",
			err:     &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_username_key"},
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "foreign key violation maps to invalid entity",
			err:     &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_user_id_fkey"},
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "check violation maps to invalid entity",
			err:     &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"},
			wantErr: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err)

			if tt.wantErr == nil && tt.err == nil {
				assert.NoError(t, got)
				return
			}

			assert.ErrorIs(t, got, tt.wantErr)
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	t.Parallel()

	original := errors.New("connection reset")
	got := MapError(original)
	assert.Equal(t, original, got)

	// Unmapped postgres codes pass through unchanged too
	pgErr := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(pgErr), MapError(pgErr))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: uniqueViolationCode}
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert failed: %w", unique)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	fk := &pgconn.PgError{Code: foreignKeyViolationCode}
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		result     sql.Result
		entityName string
		wantErr    error
		wantMsg    string
	}{
		{
			name:    "rows affected succeeds",
			result:  fakeResult{rows: 1},
			wantErr: nil,
		},
		{
			name:       "zero rows with entity name",
			result:     fakeResult{rows: 0},
			entityName: "task",
			wantErr:    store.ErrNotFound,
			wantMsg:    "task not found",
		},
		{
			name:    "zero rows without entity name",
			result:  fakeResult{rows: 0},
			wantErr: store.ErrNotFound,
		},
		{
			name:    "nil result",
			result:  nil,
			wantErr: nil,
			wantMsg: "nil result",
		},
		{
			name:    "rows affected error",
			result:  fakeResult{rowsErr: errors.New("driver does not support RowsAffected")},
			wantErr: nil,
			wantMsg: "failed to get rows affected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckRowsAffected(tt.result, tt.entityName)

			if tt.wantErr == nil && tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
