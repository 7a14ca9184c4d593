package service

import (
	"context"
	"errors"

	"chirper/domain/profile"
	"chirper/identity"
	"chirper/ratelimit"
	"chirper/storage"
)

var ErrRateLimited = errors.New("too many requests")
var ErrUserNotFound = errors.New("user not found")
var ErrSelfFollow = errors.New("cannot follow yourself")

// ErrAuthorIntegrity means a stored post references an author the
// identity provider does not know. That is store/identity drift, fatal
// for the whole page, not a recoverable per-item condition.
var ErrAuthorIntegrity = errors.New("author for post not found")

// Service holds every dependency the operations need as explicit
// fields; nothing reaches for ambient state.
type Service struct {
	Store    storage.Storage
	Identity identity.Provider
	Limiter  ratelimit.Limiter
}

func (s *Service) resolveHandle(ctx context.Context, handle string) (*profile.Profile, error) {
	profs, err := s.Identity.GetUsersByHandle(ctx, []string{handle})
	if err != nil {
		return nil, err
	}
	if len(profs) == 0 {
		return nil, ErrUserNotFound
	}
	return &profs[0], nil
}
