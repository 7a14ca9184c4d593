package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirper/domain/post"
	"chirper/ratelimit"
	"chirper/storage"
)

func TestCreatePostRejectsInvalidContent(t *testing.T) {
	svc, _ := newTestService(alice)
	ctx := context.Background()

	cases := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"plain text", "hello"},
		{"mixed", "🎉hi🎉"},
		{"too long", strings.Repeat("😀", 281)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, alice.ID, tc.content)
			var ve *post.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "content", ve.Field)
		})
	}
}

func TestCreatePost(t *testing.T) {
	svc, store := newTestService(alice)
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, alice.ID, "😀🎉🚀")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, alice.ID, p.AuthorID)

	stored, err := store.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "😀🎉🚀", stored.Content)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	svc, store := newTestService(alice, viv)
	ctx := context.Background()
	p := seedPost(t, store, "a1", alice.ID, baseTime())

	res, err := svc.ToggleLike(ctx, viv.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, res.AddedLike)

	states, err := store.LikeStates(ctx, []string{p.ID}, viv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, states[p.ID].Count)
	assert.True(t, states[p.ID].LikedByMe)

	res, err = svc.ToggleLike(ctx, viv.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, res.AddedLike)

	states, err = store.LikeStates(ctx, []string{p.ID}, viv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, states[p.ID].Count)
	assert.False(t, states[p.ID].LikedByMe)
}

func TestToggleLikeOddInvocationsFlipOnce(t *testing.T) {
	svc, store := newTestService(alice, viv)
	ctx := context.Background()
	p := seedPost(t, store, "a1", alice.ID, baseTime())

	for i := 0; i < 3; i++ {
		_, err := svc.ToggleLike(ctx, viv.ID, p.ID)
		require.NoError(t, err)
	}
	liked, err := store.HasLike(ctx, viv.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = svc.ToggleLike(ctx, viv.ID, p.ID)
	require.NoError(t, err)
	liked, err = store.HasLike(ctx, viv.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLikeConcurrentNeverDoubleCounts(t *testing.T) {
	svc, store := newTestService(alice, viv)
	ctx := context.Background()
	p := seedPost(t, store, "a1", alice.ID, baseTime())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ToggleLike(ctx, viv.ID, p.ID); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	states, err := store.LikeStates(ctx, []string{p.ID}, viv.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, states[p.ID].Count, 1)
}

func TestToggleLikeRateLimited(t *testing.T) {
	svc, store := newTestService(alice, viv)
	svc.Limiter = ratelimit.NewLocalLimiter(0.001, 1)
	ctx := context.Background()
	p := seedPost(t, store, "a1", alice.ID, baseTime())

	_, err := svc.ToggleLike(ctx, viv.ID, p.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, viv.ID, p.ID)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestToggleLikeUnknownPost(t *testing.T) {
	svc, _ := newTestService(alice, viv)
	_, err := svc.ToggleLike(context.Background(), viv.ID, "missing")
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestGetPostHydrated(t *testing.T) {
	svc, store := newTestService(alice, viv)
	ctx := context.Background()
	p := seedPost(t, store, "a1", alice.ID, baseTime())
	require.NoError(t, store.InsertLike(ctx, viv.ID, p.ID))

	hp, err := svc.GetPost(ctx, p.ID, viv.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Handle, hp.Author.Handle)
	assert.Equal(t, 1, hp.LikeCount)
	assert.True(t, hp.LikedByMe)

	_, err = svc.GetPost(ctx, "missing", viv.ID)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}
