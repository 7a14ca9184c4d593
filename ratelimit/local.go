package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// LocalLimiter keeps a token bucket per actor in process memory. It
// serves tests and single-instance deployments; multi-instance setups
// need the Redis limiter for a shared window.
type LocalLimiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   rate.Limit
	burst int
}

func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 10
	}
	return &LocalLimiter{
		m:     make(map[string]*rate.Limiter),
		rps:   rate.Limit(rps),
		burst: burst,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, actorID string) (bool, error) {
	return l.get(actorID).Allow(), nil
}

func (l *LocalLimiter) get(actorID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.m[actorID]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.m[actorID] = lim
	return lim
}
