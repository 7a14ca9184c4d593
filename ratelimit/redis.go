package ratelimit

import (
	"context"
	_ "embed"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed script.lua
var slidingWindowScript string

// RedisLimiter is a sliding-window limiter shared across instances: a
// sorted set per actor holds the timestamps of recent requests, and
// the Lua script trims, counts and records in one atomic evaluation.
type RedisLimiter struct {
	Client *redis.Client
	Quota  int
	Window time.Duration
	Prefix string

	seq uint64
}

func (rl *RedisLimiter) Allow(ctx context.Context, actorID string) (bool, error) {
	now := time.Now().UnixMilli()
	// member must be unique even when two requests land on the same
	// millisecond
	member := strconv.FormatInt(now, 10) + ":" + strconv.FormatUint(atomic.AddUint64(&rl.seq, 1), 10)
	res, err := rl.Client.Eval(ctx, slidingWindowScript,
		[]string{rl.key(actorID)},
		now, rl.window().Milliseconds(), rl.quota(), member).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (rl *RedisLimiter) key(actorID string) string {
	prefix := rl.Prefix
	if prefix == "" {
		prefix = "rl"
	}
	return prefix + ":" + actorID
}

func (rl *RedisLimiter) quota() int {
	if rl.Quota > 0 {
		return rl.Quota
	}
	return 10
}

func (rl *RedisLimiter) window() time.Duration {
	if rl.Window > 0 {
		return rl.Window
	}
	return time.Second
}
