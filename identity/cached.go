package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"chirper/domain/profile"
)

// CachedProvider is a read-through Redis cache in front of another
// provider. Profiles are read-mostly, so a short TTL keeps the hosted
// service out of the hot path without an invalidation protocol.
type CachedProvider struct {
	Client   *redis.Client
	Internal Provider
	TTL      time.Duration
}

func (cp *CachedProvider) GetUsersByID(ctx context.Context, ids []string) ([]profile.Profile, error) {
	return cp.lookup(ctx, ids, cp.idKey, cp.Internal.GetUsersByID, func(p profile.Profile) string { return p.ID })
}

func (cp *CachedProvider) GetUsersByHandle(ctx context.Context, handles []string) ([]profile.Profile, error) {
	return cp.lookup(ctx, handles, cp.handleKey, cp.Internal.GetUsersByHandle, func(p profile.Profile) string { return p.Handle })
}

func (cp *CachedProvider) lookup(
	ctx context.Context,
	keys []string,
	cacheKey func(string) string,
	fetch func(context.Context, []string) ([]profile.Profile, error),
	keyOf func(profile.Profile) string,
) ([]profile.Profile, error) {
	out := make([]profile.Profile, 0, len(keys))
	misses := make([]string, 0)
	for _, k := range keys {
		if p := cp.getProfile(ctx, cacheKey(k)); p != nil {
			out = append(out, *p)
			continue
		}
		misses = append(misses, k)
	}
	if len(misses) == 0 {
		return out, nil
	}
	fetched, err := fetch(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, p := range fetched {
		cp.storeProfile(ctx, cacheKey(keyOf(p)), p)
		out = append(out, p)
	}
	return out, nil
}

func (cp *CachedProvider) getProfile(ctx context.Context, key string) *profile.Profile {
	r, err := cp.Client.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(r), &p); err != nil {
		return nil
	}
	return &p
}

func (cp *CachedProvider) storeProfile(ctx context.Context, key string, p profile.Profile) {
	res, _ := json.Marshal(p)
	cp.Client.Set(ctx, key, string(res), cp.ttl())
}

func (cp *CachedProvider) ttl() time.Duration {
	if cp.TTL > 0 {
		return cp.TTL
	}
	return time.Hour
}

func (cp *CachedProvider) idKey(id string) string {
	return "prof:id:" + id
}

func (cp *CachedProvider) handleKey(handle string) string {
	return "prof:h:" + handle
}
