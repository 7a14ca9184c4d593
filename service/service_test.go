package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chirper/domain/post"
	"chirper/domain/profile"
	"chirper/identity"
	"chirper/ratelimit"
	"chirper/storage"
)

func newTestService(profiles ...profile.Profile) (*Service, *storage.InMemoryStorage) {
	store := storage.NewInMemoryStorage()
	return &Service{
		Store:    store,
		Identity: identity.NewStatic(profiles...),
		Limiter:  ratelimit.NewLocalLimiter(1000, 1000),
	}, store
}

func seedPost(t *testing.T, store storage.Storage, id, authorID string, createdAt time.Time) post.Post {
	t.Helper()
	p := post.Post{ID: id, AuthorID: authorID, Content: "🎉", CreatedAt: createdAt}
	require.NoError(t, store.AddPost(context.Background(), &p))
	return p
}

var (
	alice = profile.Profile{ID: "u-alice", Handle: "alice", AvatarURL: "https://img.test/alice.png"}
	bob   = profile.Profile{ID: "u-bob", Handle: "bob", AvatarURL: "https://img.test/bob.png"}
	viv   = profile.Profile{ID: "u-viv", Handle: "viv", AvatarURL: "https://img.test/viv.png"}
)

func baseTime() time.Time {
	return time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
}
