package identity

import (
	"context"
	"sync"

	"chirper/domain/profile"
)

// Provider resolves stable user ids and handles to profiles. Lookups
// are batched: one call covers every id or handle a page needs. A
// missing user is simply absent from the result, not an error.
type Provider interface {
	GetUsersByID(ctx context.Context, ids []string) ([]profile.Profile, error)
	GetUsersByHandle(ctx context.Context, handles []string) ([]profile.Profile, error)
}

// Static is an in-process provider for tests and local development.
type Static struct {
	mu       sync.RWMutex
	byID     map[string]profile.Profile
	byHandle map[string]profile.Profile
}

func NewStatic(profiles ...profile.Profile) *Static {
	s := &Static{
		byID:     make(map[string]profile.Profile),
		byHandle: make(map[string]profile.Profile),
	}
	for _, p := range profiles {
		s.Add(p)
	}
	return s
}

func (s *Static) Add(p profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = p
	s.byHandle[p.Handle] = p
}

func (s *Static) GetUsersByID(_ context.Context, ids []string) ([]profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]profile.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Static) GetUsersByHandle(_ context.Context, handles []string) ([]profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]profile.Profile, 0, len(handles))
	for _, h := range handles {
		if p, ok := s.byHandle[h]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
