package storage

import (
	"context"
	"sort"
	"sync"

	"chirper/domain/post"
	"chirper/utils"
)

// InMemoryStorage keeps everything behind one mutex. It backs the test
// suite and local development; the Mongo implementation is the durable
// one.
type InMemoryStorage struct {
	mu          sync.RWMutex
	posts       []*post.Post
	postsByID   map[string]*post.Post
	users       map[string]bool
	likesByPost map[string]map[string]bool // postID -> set of liker ids
	follows     map[string]map[string]bool // followerID -> set of followed ids
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		postsByID:   make(map[string]*post.Post),
		users:       make(map[string]bool),
		likesByPost: make(map[string]map[string]bool),
		follows:     make(map[string]map[string]bool),
	}
}

func (im *InMemoryStorage) AddPost(_ context.Context, p *post.Post) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.Now()
	}
	for {
		if p.ID == "" {
			p.ID = utils.GeneratePostId()
		}
		if _, ok := im.postsByID[p.ID]; !ok {
			break
		}
		p.ID = ""
	}
	stored := *p
	im.posts = append(im.posts, &stored)
	im.postsByID[stored.ID] = &stored
	return nil
}

func (im *InMemoryStorage) GetPostByID(_ context.Context, postID string) (*post.Post, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	p, ok := im.postsByID[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (im *InMemoryStorage) ListPosts(_ context.Context, filter PostFilter, cursor *post.Cursor, limit int) ([]post.Post, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	var following map[string]bool
	if filter.FollowedBy != "" {
		following = im.follows[filter.FollowedBy]
		if len(following) == 0 {
			return []post.Post{}, nil
		}
	}
	matched := make([]post.Post, 0)
	for _, p := range im.posts {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if following != nil && !following[p.AuthorID] {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	arr := make([]post.Post, 0, limit)
	for _, p := range matched {
		if cursor != nil && !beforeCursor(p, cursor) {
			continue
		}
		arr = append(arr, p)
		if len(arr) == limit {
			break
		}
	}
	return arr, nil
}

// beforeCursor reports whether p sorts strictly after the cursor under
// (createdAt DESC, id DESC) order.
func beforeCursor(p post.Post, c *post.Cursor) bool {
	if p.CreatedAt.Before(c.CreatedAt) {
		return true
	}
	return p.CreatedAt.Equal(c.CreatedAt) && p.ID < c.ID
}

func (im *InMemoryStorage) LikeStates(_ context.Context, postIDs []string, viewerID string) (map[string]LikeState, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	states := make(map[string]LikeState, len(postIDs))
	for _, id := range postIDs {
		likers := im.likesByPost[id]
		states[id] = LikeState{
			Count:     len(likers),
			LikedByMe: viewerID != "" && likers[viewerID],
		}
	}
	return states, nil
}

func (im *InMemoryStorage) EnsureUser(_ context.Context, userID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.users[userID] = true
	return nil
}

func (im *InMemoryStorage) InsertLike(_ context.Context, authorID, postID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	likers, ok := im.likesByPost[postID]
	if !ok {
		likers = make(map[string]bool)
		im.likesByPost[postID] = likers
	}
	if likers[authorID] {
		return ErrAlreadyLiked
	}
	likers[authorID] = true
	return nil
}

func (im *InMemoryStorage) DeleteLike(_ context.Context, authorID, postID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.likesByPost[postID], authorID)
	return nil
}

func (im *InMemoryStorage) HasLike(_ context.Context, authorID, postID string) (bool, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.likesByPost[postID][authorID], nil
}

func (im *InMemoryStorage) AddFollow(_ context.Context, followerID, followedID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	followed, ok := im.follows[followerID]
	if !ok {
		followed = make(map[string]bool)
		im.follows[followerID] = followed
	}
	followed[followedID] = true
	return nil
}

func (im *InMemoryStorage) RemoveFollow(_ context.Context, followerID, followedID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.follows[followerID], followedID)
	return nil
}

func (im *InMemoryStorage) HasFollow(_ context.Context, followerID, followedID string) (bool, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.follows[followerID][followedID], nil
}

func (im *InMemoryStorage) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	ids := make([]string, 0)
	for follower, followed := range im.follows {
		if followed[userID] {
			ids = append(ids, follower)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (im *InMemoryStorage) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	ids := make([]string, 0, len(im.follows[userID]))
	for followed := range im.follows[userID] {
		ids = append(ids, followed)
	}
	sort.Strings(ids)
	return ids, nil
}

func (im *InMemoryStorage) ProfileCounts(_ context.Context, userID string) (Counts, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	var c Counts
	c.Follows = len(im.follows[userID])
	for _, followed := range im.follows {
		if followed[userID] {
			c.Followers++
		}
	}
	for _, p := range im.posts {
		if p.AuthorID == userID {
			c.Posts++
		}
	}
	return c, nil
}
