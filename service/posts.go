package service

import (
	"context"
	"errors"

	"chirper/domain/post"
	"chirper/storage"
)

func (s *Service) CreatePost(ctx context.Context, authorID, content string) (*post.Post, error) {
	if err := post.ValidateContent(content); err != nil {
		return nil, err
	}
	if err := s.Store.EnsureUser(ctx, authorID); err != nil {
		return nil, err
	}
	p := &post.Post{AuthorID: authorID, Content: content}
	if err := s.Store.AddPost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost returns one hydrated post, like state scoped to viewerID.
func (s *Service) GetPost(ctx context.Context, postID, viewerID string) (*post.Hydrated, error) {
	p, err := s.Store.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	states, err := s.Store.LikeStates(ctx, []string{p.ID}, viewerID)
	if err != nil {
		return nil, err
	}
	authors, err := s.resolveAuthors(ctx, []post.Post{*p})
	if err != nil {
		return nil, err
	}
	author, ok := authors[p.AuthorID]
	if !ok || author.Handle == "" {
		return nil, ErrAuthorIntegrity
	}
	state := states[p.ID]
	return &post.Hydrated{
		Post:      *p,
		Author:    author,
		LikeCount: state.Count,
		LikedByMe: state.LikedByMe,
	}, nil
}

type LikeResult struct {
	AddedLike bool `json:"addedLike"`
}

// ToggleLike flips the viewer's like on a post. The unique (author,
// post) constraint in the store is the concurrency guard: losing the
// create race still leaves exactly one row, and the call reports the
// state the viewer asked for.
func (s *Service) ToggleLike(ctx context.Context, viewerID, postID string) (*LikeResult, error) {
	allowed, err := s.Limiter.Allow(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrRateLimited
	}
	if err := s.Store.EnsureUser(ctx, viewerID); err != nil {
		return nil, err
	}
	if _, err := s.Store.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	liked, err := s.Store.HasLike(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if !liked {
		err := s.Store.InsertLike(ctx, viewerID, postID)
		if err != nil && !errors.Is(err, storage.ErrAlreadyLiked) {
			return nil, err
		}
		return &LikeResult{AddedLike: true}, nil
	}
	if err := s.Store.DeleteLike(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	return &LikeResult{AddedLike: false}, nil
}
