package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chirper/domain/post"
	"chirper/domain/profile"
	"chirper/identity"
	"chirper/ratelimit"
	"chirper/service"
	"chirper/storage"
)

var (
	alice = profile.Profile{ID: "u-alice", Handle: "alice", AvatarURL: "https://img.test/alice.png"}
	viv   = profile.Profile{ID: "u-viv", Handle: "viv", AvatarURL: "https://img.test/viv.png"}
)

func newTestRouter(t *testing.T) (*mux.Router, *service.Service, *storage.InMemoryStorage) {
	t.Helper()
	store := storage.NewInMemoryStorage()
	svc := &service.Service{
		Store:    store,
		Identity: identity.NewStatic(alice, viv),
		Limiter:  ratelimit.NewLocalLimiter(1000, 1000),
	}
	r, err := NewRouter(svc, zap.NewNop())
	require.NoError(t, err)
	return r, svc, store
}

func seedPost(t *testing.T, store *storage.InMemoryStorage, id, authorID string, createdAt time.Time) post.Post {
	t.Helper()
	p := post.Post{ID: id, AuthorID: authorID, Content: "🎉", CreatedAt: createdAt}
	require.NoError(t, store.AddPost(context.Background(), &p))
	return p
}

func doJSON(r *mux.Router, method, target, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("User-Id", userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreatePostRequiresUser(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodPost, "/api/v1/posts", "", map[string]string{"content": "😀"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePostRejectsPlainText(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodPost, "/api/v1/posts", viv.ID, map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "content", resp.Field)
}

func TestCreatePost(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodPost, "/api/v1/posts", viv.ID, map[string]string{"content": "😀🎉"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created post.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, viv.ID, created.AuthorID)
}

func TestFeedPagination(t *testing.T) {
	r, _, store := newTestRouter(t)
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, store, "p1", alice.ID, ts)
	seedPost(t, store, "p2", alice.ID, ts.Add(time.Second))
	seedPost(t, store, "p3", alice.ID, ts.Add(2*time.Second))

	rec := doJSON(r, http.MethodGet, "/api/v1/feed?size=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page1 FeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page1))
	require.Len(t, page1.Posts, 2)
	assert.Equal(t, "p3", page1.Posts[0].ID)
	assert.Equal(t, "p2", page1.Posts[1].ID)
	require.NotEmpty(t, page1.NextPage)

	rec = doJSON(r, http.MethodGet, "/api/v1/feed?size=2&page="+page1.NextPage, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page2 FeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page2))
	require.Len(t, page2.Posts, 1)
	assert.Equal(t, "p1", page2.Posts[0].ID)
	assert.Empty(t, page2.NextPage)
}

func TestFeedRejectsBadToken(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodGet, "/api/v1/feed?page=garbage", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowingFeedDegradesForAnonymous(t *testing.T) {
	r, _, store := newTestRouter(t)
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, store, "p1", alice.ID, ts)

	rec := doJSON(r, http.MethodGet, "/api/v1/feed?following=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page FeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	// no viewer: following degrades to the global feed
	assert.Len(t, page.Posts, 1)
}

func TestToggleLikeTooManyRequests(t *testing.T) {
	r, svc, store := newTestRouter(t)
	svc.Limiter = ratelimit.NewLocalLimiter(0.001, 1)
	p := seedPost(t, store, "p1", alice.ID, time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	rec := doJSON(r, http.MethodPost, "/api/v1/posts/"+p.ID+"/like", viv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res service.LikeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.AddedLike)

	rec = doJSON(r, http.MethodPost, "/api/v1/posts/"+p.ID+"/like", viv.ID, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestToggleFollow(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodPost, "/api/v1/users/alice/follow", viv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res service.FollowResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.AddedFollow)

	rec = doJSON(r, http.MethodGet, "/api/v1/users/alice", viv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary profile.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.IsFollowing)
	assert.Equal(t, 1, summary.FollowersCount)
}

func TestGetProfileNotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodGet, "/api/v1/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPostById(t *testing.T) {
	r, _, store := newTestRouter(t)
	p := seedPost(t, store, "p1", alice.ID, time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.InsertLike(context.Background(), viv.ID, p.ID))

	rec := doJSON(r, http.MethodGet, "/api/v1/posts/"+p.ID, viv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hp post.Hydrated
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hp))
	assert.Equal(t, alice.Handle, hp.Author.Handle)
	assert.Equal(t, 1, hp.LikeCount)
	assert.True(t, hp.LikedByMe)
}

func TestGetPostByIdNotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodGet, "/api/v1/posts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowersEndpoint(t *testing.T) {
	r, _, store := newTestRouter(t)
	require.NoError(t, store.AddFollow(context.Background(), viv.ID, alice.ID))

	rec := doJSON(r, http.MethodGet, "/api/v1/users/alice/followers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp UsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, viv.ID, resp.Users[0].ID)
}
