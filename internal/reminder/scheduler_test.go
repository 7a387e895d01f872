package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/taskward/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultSchedulerConfig()
	assert.Equal(t, 24*time.Hour, cfg.Interval)
}

func TestNewSchedulerAppliesDefaultInterval(t *testing.T) {
	t.Parallel()

	s := NewScheduler(mocks.NewMockTaskStore(), SchedulerConfig{}, slog.Default())
	assert.Equal(t, 24*time.Hour, s.config.Interval)
}

func TestSchedulerScansOnTick(t *testing.T) {
	t.Parallel()

	var scans atomic.Int32

	taskStore := mocks.NewMockTaskStore()
	taskStore.CountOpenOverdueFn = func(ctx context.Context, day time.Time) (int, error) {
		scans.Add(1)

		// The scan day is truncated to midnight UTC
		assert.Equal(t, time.UTC, day.Location())
		assert.Zero(t, day.Hour())
		assert.Zero(t, day.Minute())

		return 3, nil
	}

	s := NewScheduler(taskStore, SchedulerConfig{Interval: 10 * time.Millisecond}, slog.Default())
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool {
		return scans.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
}

func TestSchedulerStartTwiceFails(t *testing.T) {
	t.Parallel()

	s := NewScheduler(mocks.NewMockTaskStore(), SchedulerConfig{Interval: time.Hour}, slog.Default())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Start())
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewScheduler(mocks.NewMockTaskStore(), SchedulerConfig{Interval: time.Hour}, slog.Default())

	// Must not block or panic
	s.Stop()
}

func TestSchedulerSurvivesScanErrors(t *testing.T) {
	t.Parallel()

	var scans atomic.Int32

	taskStore := mocks.NewMockTaskStore()
	taskStore.CountOpenOverdueFn = func(ctx context.Context, day time.Time) (int, error) {
		scans.Add(1)
		return 0, errors.New("database unavailable")
	}

	s := NewScheduler(taskStore, SchedulerConfig{Interval: 10 * time.Millisecond}, slog.Default())
	require.NoError(t, s.Start())

	// Errors are logged and swallowed, so ticking continues
	assert.Eventually(t, func() bool {
		return scans.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
}

func TestSchedulerStopHaltsScanning(t *testing.T) {
	t.Parallel()

	var scans atomic.Int32

	taskStore := mocks.NewMockTaskStore()
	taskStore.CountOpenOverdueFn = func(ctx context.Context, day time.Time) (int, error) {
		scans.Add(1)
		return 0, nil
	}

	s := NewScheduler(taskStore, SchedulerConfig{Interval: 10 * time.Millisecond}, slog.Default())
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool {
		return scans.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	after := scans.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, scans.Load())
}
