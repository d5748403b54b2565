package idea

import (
	"context"
	"sync"
	"time"

	"ideadrop.org/internal/ids"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store used when no database is configured and
// by the httptest suites.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*Idea
	order []string
}

// NewMemoryStore constructs an empty in-memory idea store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Idea)}
}

func (s *MemoryStore) Create(_ context.Context, i *Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i.ID == "" {
		i.ID = ids.New()
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now

	cp := clone(i)
	s.byID[cp.ID] = cp
	s.order = append(s.order, cp.ID)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (*Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(i), nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Idea, 0, len(s.order))
	// Insertion order, newest first.
	for idx := len(s.order) - 1; idx >= 0; idx-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, clone(s.byID[s.order[idx]]))
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, i *Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[i.ID]
	if !ok {
		return ErrNotFound
	}
	i.CreatedAt = existing.CreatedAt
	i.UpdatedAt = time.Now().UTC()
	s.byID[i.ID] = clone(i)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for idx, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:idx], s.order[idx+1:]...)
			break
		}
	}
	return nil
}

func clone(i *Idea) *Idea {
	cp := *i
	if i.Tags != nil {
		cp.Tags = make([]string, len(i.Tags))
		copy(cp.Tags, i.Tags)
	}
	return &cp
}
