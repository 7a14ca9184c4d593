package ratelimit

import "context"

// Limiter answers whether an actor may perform another guarded
// mutation right now. Exceeding the quota fails the mutation; nothing
// queues or blocks.
type Limiter interface {
	Allow(ctx context.Context, actorID string) (bool, error)
}
