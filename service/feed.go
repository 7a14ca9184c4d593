package service

import (
	"context"

	"chirper/domain/post"
	"chirper/domain/profile"
	"chirper/storage"
)

const DefaultPageSize = 20

// FeedFilter selects which posts a page covers. The zero value is the
// global feed; set exactly one field otherwise.
type FeedFilter struct {
	// AuthorID restricts the page to one author's posts.
	AuthorID string
	// FollowedBy restricts the page to authors this viewer follows.
	// Degrading an unauthenticated following request to the global feed
	// is the caller's policy, not enforced here.
	FollowedBy string
}

type FeedPage struct {
	Posts      []post.Hydrated `json:"posts"`
	NextCursor *post.Cursor    `json:"nextCursor,omitempty"`
}

// FetchPage produces one page of hydrated posts, newest first. It asks
// the store for limit+1 rows; the extra row only signals that another
// page exists and is withheld from the result. Like aggregates take
// one store round trip and author profiles one batched identity round
// trip, whatever the page size.
func (s *Service) FetchPage(ctx context.Context, filter FeedFilter, cursor *post.Cursor, limit int, viewerID string) (*FeedPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	rows, err := s.Store.ListPosts(ctx, storage.PostFilter{
		AuthorID:   filter.AuthorID,
		FollowedBy: filter.FollowedBy,
	}, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	var next *post.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		// the store seeks strictly past the cursor, so the resume point
		// is the last row this page emits, not the withheld extra row
		last := rows[limit-1]
		next = &post.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	page := &FeedPage{Posts: make([]post.Hydrated, 0, len(rows)), NextCursor: next}
	if len(rows) == 0 {
		return page, nil
	}

	ids := make([]string, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
	}
	states, err := s.Store.LikeStates(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	authors, err := s.resolveAuthors(ctx, rows)
	if err != nil {
		return nil, err
	}

	for _, p := range rows {
		author, ok := authors[p.AuthorID]
		if !ok || author.Handle == "" {
			return nil, ErrAuthorIntegrity
		}
		state := states[p.ID]
		page.Posts = append(page.Posts, post.Hydrated{
			Post:      p,
			Author:    author,
			LikeCount: state.Count,
			LikedByMe: state.LikedByMe,
		})
	}
	return page, nil
}

// ProfileFeed resolves the handle once, then runs the author-filtered
// page query against the resolved id.
func (s *Service) ProfileFeed(ctx context.Context, handle string, cursor *post.Cursor, limit int, viewerID string) (*FeedPage, error) {
	target, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.FetchPage(ctx, FeedFilter{AuthorID: target.ID}, cursor, limit, viewerID)
}

func (s *Service) resolveAuthors(ctx context.Context, rows []post.Post) (map[string]profile.Profile, error) {
	distinct := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, p := range rows {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			distinct = append(distinct, p.AuthorID)
		}
	}
	profs, err := s.Identity.GetUsersByID(ctx, distinct)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]profile.Profile, len(profs))
	for _, p := range profs {
		authors[p.ID] = p
	}
	return authors, nil
}
