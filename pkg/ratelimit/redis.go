package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter backed by INCR + EXPIRE, shared by
// every process pointed at the same instance.
type Redis struct {
	rdb *redis.Client
	max int
	per time.Duration
}

// NewRedis creates a limiter allowing max requests per window
func NewRedis(rdb *redis.Client, max int, per time.Duration) *Redis {
	return &Redis{rdb: rdb, max: max, per: per}
}

func (r *Redis) Allow(ctx context.Context, key string) bool {
	k := "ratelimit:" + key
	n, err := r.rdb.Incr(ctx, k).Result()
	if err != nil {
		// Fail open when redis is unreachable
		return true
	}
	if n == 1 {
		r.rdb.Expire(ctx, k, r.per)
	}
	return n <= int64(r.max)
}
