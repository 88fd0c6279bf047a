package middleware

import (
	"context"
	"errors"
	"time"

	"task_tracker/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter implements a fixed-window limiter using Redis INCR/EXPIRE,
// shared by every replica of the service.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter connects to addr. It returns nil when addr is empty or the
// server does not answer a ping, and the caller uses a MemoryLimiter instead.
func NewRedisLimiter(addr, password string, db int) *RedisLimiter {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis rate limiter connected", "addr", addr)
	return &RedisLimiter{client: client}
}

var errNoRedis = errors.New("redis limiter not configured")

func (r *RedisLimiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r == nil {
		return 0, errNoRedis
	}
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first hit opens the window
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

func (r *RedisLimiter) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}
