package post

import (
	"time"

	"chirper/domain/profile"
)

// Post is immutable after creation; there is no edit or delete path.
type Post struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"authorId" bson:"authorId"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Hydrated is a post enriched with its author's profile and the like
// aggregates computed for the requesting viewer. Fields are assembled
// one by one at the hydration point, never merged from partial maps.
type Hydrated struct {
	Post
	Author    profile.Profile `json:"author"`
	LikeCount int             `json:"likeCount"`
	LikedByMe bool            `json:"likedByMe"`
}
