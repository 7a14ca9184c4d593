package profile

// Profile is the identity provider's view of a user.
type Profile struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatarUrl"`
}

// Summary is a profile plus the social-graph aggregates shown on a
// profile page.
type Summary struct {
	Profile
	FollowersCount int  `json:"followersCount"`
	FollowsCount   int  `json:"followsCount"`
	PostsCount     int  `json:"postsCount"`
	IsFollowing    bool `json:"isFollowing"`
}
