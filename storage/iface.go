package storage

import (
	"context"

	"chirper/domain/post"
)

// PostFilter narrows a post listing. The zero value is the global feed.
// AuthorID and FollowedBy are mutually exclusive: exactly one filter
// mode is active per call.
type PostFilter struct {
	// AuthorID restricts the listing to one author (profile feed).
	AuthorID string
	// FollowedBy restricts the listing to authors this user follows.
	FollowedBy string
}

// LikeState is the per-post like aggregate for one viewer.
type LikeState struct {
	Count     int
	LikedByMe bool
}

// Counts are the aggregates shown on a profile page.
type Counts struct {
	Followers int
	Follows   int
	Posts     int
}

type Storage interface {
	// AddPost inserts p, assigning ID and CreatedAt when unset.
	AddPost(ctx context.Context, p *post.Post) error
	GetPostByID(ctx context.Context, postID string) (*post.Post, error)
	// ListPosts returns up to limit posts matching filter, ordered by
	// (createdAt DESC, id DESC), seeked strictly past cursor when set.
	ListPosts(ctx context.Context, filter PostFilter, cursor *post.Cursor, limit int) ([]post.Post, error)
	// LikeStates returns the like count and the viewer's like state for
	// every id in postIDs in a single round trip. An empty viewerID
	// yields LikedByMe=false throughout.
	LikeStates(ctx context.Context, postIDs []string, viewerID string) (map[string]LikeState, error)

	// EnsureUser creates the user record if it does not exist yet.
	// Absence of a user is an implicit "new user" state, not an error.
	EnsureUser(ctx context.Context, userID string) error

	InsertLike(ctx context.Context, authorID, postID string) error
	DeleteLike(ctx context.Context, authorID, postID string) error
	HasLike(ctx context.Context, authorID, postID string) (bool, error)

	AddFollow(ctx context.Context, followerID, followedID string) error
	RemoveFollow(ctx context.Context, followerID, followedID string) error
	HasFollow(ctx context.Context, followerID, followedID string) (bool, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	ProfileCounts(ctx context.Context, userID string) (Counts, error)
}
