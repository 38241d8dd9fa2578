package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewise/coursewise/internal/apperror"
	"github.com/coursewise/coursewise/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLimiter(store CounterStore, maxRequests int, atomic bool) *Limiter {
	return NewLimiter(store, config.RateLimitConfig{
		MaxRequests: maxRequests,
		WindowHours: 1,
		Atomic:      atomic,
	}, testLogger())
}

func TestLimiterAdmitsUpToQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newTestLimiter(NewMemoryCounterStore(), 3, false)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, userID), "request %d should be admitted", i+1)
	}

	err := limiter.Allow(ctx, userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.New(apperror.KindRateLimitExceeded))

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, userID, appErr.UserID)
	assert.Equal(t, 3, appErr.MaxRequests)
	assert.Equal(t, 1, appErr.WindowHours)
}

func TestLimiterIsPerUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newTestLimiter(NewMemoryCounterStore(), 1, false)

	first := uuid.New()
	second := uuid.New()

	require.NoError(t, limiter.Allow(ctx, first))
	require.Error(t, limiter.Allow(ctx, first))

	// A different user has an independent counter
	assert.NoError(t, limiter.Allow(ctx, second))
}

func TestLimiterWindowExpiryResetsQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryCounterStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	limiter := newTestLimiter(store, 2, false)
	userID := uuid.New()

	require.NoError(t, limiter.Allow(ctx, userID))
	require.NoError(t, limiter.Allow(ctx, userID))
	require.Error(t, limiter.Allow(ctx, userID))

	// Advance past the one-hour window; the counter starts fresh
	current = current.Add(time.Hour + time.Minute)

	assert.NoError(t, limiter.Allow(ctx, userID))
}

func TestLimiterRejectionDoesNotConsumeQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryCounterStore()
	limiter := newTestLimiter(store, 1, false)
	userID := uuid.New()

	require.NoError(t, limiter.Allow(ctx, userID))

	// Repeated rejections leave the counter where it is
	for i := 0; i < 5; i++ {
		require.Error(t, limiter.Allow(ctx, userID))
	}

	count, err := store.Count(ctx, keyPrefix+userID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLimiterAtomicModeAdmitsExactQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newTestLimiter(NewMemoryCounterStore(), 3, true)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, userID), "request %d should be admitted", i+1)
	}

	err := limiter.Allow(ctx, userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.New(apperror.KindRateLimitExceeded))
}

// failingCounterStore returns a fixed error from every operation.
type failingCounterStore struct {
	err error
}

func (s *failingCounterStore) Count(ctx context.Context, key string) (int64, error) {
	return 0, s.err
}

func (s *failingCounterStore) Increment(ctx context.Context, key string, window time.Duration) error {
	return s.err
}

func (s *failingCounterStore) IncrementAndCount(
	ctx context.Context,
	key string,
	window time.Duration,
) (int64, error) {
	return 0, s.err
}

func TestLimiterPropagatesStoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storeErr := errors.New("redis unavailable")
	limiter := newTestLimiter(&failingCounterStore{err: storeErr}, 3, false)

	err := limiter.Allow(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	// A store failure is not an admission rejection
	assert.NotErrorIs(t, err, apperror.New(apperror.KindRateLimitExceeded))
}
