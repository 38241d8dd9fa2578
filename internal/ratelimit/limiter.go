package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/apperror"
	"github.com/coursewise/coursewise/internal/config"
)

// keyPrefix namespaces rate-limit counters in the shared store.
const keyPrefix = "rate_limit:user:"

// Limiter enforces a fixed-window request quota per user. The policy is
// deliberately a fixed window, not sliding or token-bucket: a burst at a
// window boundary can admit up to twice MaxRequests in a short span.
type Limiter struct {
	store       CounterStore
	maxRequests int
	window      time.Duration
	windowHours int

	// atomic selects the single increment-and-compare admission check.
	// The default read-then-increment is two operations against shared
	// storage with no compare-and-set between them, so concurrent callers
	// with the same key can over-admit. Both behaviors are intentional
	// and covered by tests.
	atomic bool

	logger *slog.Logger
}

// NewLimiter creates a Limiter with the given counter store and quota
// configuration.
func NewLimiter(store CounterStore, cfg config.RateLimitConfig, logger *slog.Logger) *Limiter {
	if store == nil {
		panic("counter store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Limiter{
		store:       store,
		maxRequests: cfg.MaxRequests,
		window:      time.Duration(cfg.WindowHours) * time.Hour,
		windowHours: cfg.WindowHours,
		atomic:      cfg.Atomic,
		logger:      logger.With(slog.String("component", "rate_limiter")),
	}
}

// Allow admits or rejects one request for the given user. A rejection is
// an apperror of kind KindRateLimitExceeded carrying the quota context;
// the counter is not advanced for rejected requests in the default mode.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID) error {
	key := keyPrefix + userID.String()

	if l.atomic {
		return l.allowAtomic(ctx, key, userID)
	}
	return l.allowRacy(ctx, key, userID)
}

// allowRacy is the default read-then-increment check.
func (l *Limiter) allowRacy(ctx context.Context, key string, userID uuid.UUID) error {
	count, err := l.store.Count(ctx, key)
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}

	if count >= int64(l.maxRequests) {
		return l.reject(userID, count)
	}

	if err := l.store.Increment(ctx, key, l.window); err != nil {
		return fmt.Errorf("rate limit increment failed: %w", err)
	}

	return nil
}

// allowAtomic increments first and compares the result, so concurrent
// callers cannot slip past the quota. Rejected requests have already
// consumed a slot, which only makes the gate stricter.
func (l *Limiter) allowAtomic(ctx context.Context, key string, userID uuid.UUID) error {
	count, err := l.store.IncrementAndCount(ctx, key, l.window)
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}

	if count > int64(l.maxRequests) {
		return l.reject(userID, count)
	}

	return nil
}

func (l *Limiter) reject(userID uuid.UUID, count int64) error {
	l.logger.Warn("rate limit exceeded",
		slog.String("user_id", userID.String()),
		slog.Int64("count", count),
		slog.Int("max_requests", l.maxRequests))

	return &apperror.Error{
		Kind:        apperror.KindRateLimitExceeded,
		UserID:      userID,
		MaxRequests: l.maxRequests,
		WindowHours: l.windowHours,
	}
}
