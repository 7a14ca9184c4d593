package service

import (
	"context"

	"chirper/domain/profile"
)

func (s *Service) GetProfile(ctx context.Context, handle, viewerID string) (*profile.Summary, error) {
	prof, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	// first reference to this user may well be a profile view
	if err := s.Store.EnsureUser(ctx, prof.ID); err != nil {
		return nil, err
	}
	counts, err := s.Store.ProfileCounts(ctx, prof.ID)
	if err != nil {
		return nil, err
	}
	isFollowing := false
	if viewerID != "" {
		isFollowing, err = s.Store.HasFollow(ctx, viewerID, prof.ID)
		if err != nil {
			return nil, err
		}
	}
	return &profile.Summary{
		Profile:        *prof,
		FollowersCount: counts.Followers,
		FollowsCount:   counts.Follows,
		PostsCount:     counts.Posts,
		IsFollowing:    isFollowing,
	}, nil
}

type FollowResult struct {
	AddedFollow bool `json:"addedFollow"`
}

// ToggleFollow flips the current->target follow edge. Self-follows are
// rejected: a user's own posts must never enter their following feed.
func (s *Service) ToggleFollow(ctx context.Context, viewerID, targetHandle string) (*FollowResult, error) {
	target, err := s.resolveHandle(ctx, targetHandle)
	if err != nil {
		return nil, err
	}
	if target.ID == viewerID {
		return nil, ErrSelfFollow
	}
	if err := s.Store.EnsureUser(ctx, viewerID); err != nil {
		return nil, err
	}
	if err := s.Store.EnsureUser(ctx, target.ID); err != nil {
		return nil, err
	}
	has, err := s.Store.HasFollow(ctx, viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if !has {
		if err := s.Store.AddFollow(ctx, viewerID, target.ID); err != nil {
			return nil, err
		}
		return &FollowResult{AddedFollow: true}, nil
	}
	if err := s.Store.RemoveFollow(ctx, viewerID, target.ID); err != nil {
		return nil, err
	}
	return &FollowResult{AddedFollow: false}, nil
}

func (s *Service) Followers(ctx context.Context, handle string) ([]profile.Profile, error) {
	target, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	ids, err := s.Store.FollowerIDs(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []profile.Profile{}, nil
	}
	return s.Identity.GetUsersByID(ctx, ids)
}

func (s *Service) Following(ctx context.Context, handle string) ([]profile.Profile, error) {
	target, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	ids, err := s.Store.FollowingIDs(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []profile.Profile{}, nil
	}
	return s.Identity.GetUsersByID(ctx, ids)
}
