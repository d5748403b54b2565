package idea

import (
	"context"
	"fmt"
	"strings"
)

// Service implements idea CRUD with ownership checks on mutations.
type Service struct {
	store Store
}

// NewService constructs the idea service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns ideas newest-first, optionally capped at limit.
func (s *Service) List(ctx context.Context, limit int) ([]*Idea, error) {
	return s.store.List(ctx, limit)
}

// Get returns a single idea by id.
func (s *Service) Get(ctx context.Context, id string) (*Idea, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	return s.store.Find(ctx, id)
}

// Create validates input and stores a new idea owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*Idea, error) {
	in = normalize(in)
	if in.Title == "" || in.Summary == "" || in.Description == "" {
		return nil, ErrInvalidInput
	}
	i := &Idea{
		Title:       in.Title,
		Summary:     in.Summary,
		Description: in.Description,
		Tags:        in.Tags,
		UserID:      userID,
	}
	if err := s.store.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	return i, nil
}

// Update replaces the editable fields of an idea the caller owns.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*Idea, error) {
	in = normalize(in)
	if in.Title == "" || in.Summary == "" || in.Description == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}
	existing.Title = in.Title
	existing.Summary = in.Summary
	existing.Description = in.Description
	existing.Tags = in.Tags
	if err := s.store.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update idea: %w", err)
	}
	return existing, nil
}

// Delete removes an idea the caller owns.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

func normalize(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Summary = strings.TrimSpace(in.Summary)
	in.Description = strings.TrimSpace(in.Description)
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	in.Tags = tags
	return in
}
