package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore is a Redis-backed CounterStore. Counts live in keys
// with a TTL, so window expiry is key expiry and requires no sweeper.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a CounterStore over the given Redis client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisCounterStore{client: client}
}

// Ensure RedisCounterStore implements CounterStore
var _ CounterStore = (*RedisCounterStore)(nil)

// Count implements CounterStore.Count
func (s *RedisCounterStore) Count(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read rate limit counter: %w", err)
	}
	return count, nil
}

// Increment implements CounterStore.Increment
// INCR and EXPIRE are pipelined; the expiry is refreshed on every
// increment, matching the fixed-window policy.
func (s *RedisCounterStore) Increment(
	ctx context.Context,
	key string,
	window time.Duration,
) error {
	pipe := s.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	return nil
}

// IncrementAndCount implements CounterStore.IncrementAndCount
// A single INCR is atomic in Redis; the expiry is set only when the key
// is created so the window does not slide.
func (s *RedisCounterStore) IncrementAndCount(
	ctx context.Context,
	key string,
	window time.Duration,
) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count, nil
}
