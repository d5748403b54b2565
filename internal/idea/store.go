package idea

import "context"

// Store describes idea persistence. List returns newest-first; limit <= 0
// means no limit.
type Store interface {
	Create(ctx context.Context, i *Idea) error
	Find(ctx context.Context, id string) (*Idea, error)
	List(ctx context.Context, limit int) ([]*Idea, error)
	Update(ctx context.Context, i *Idea) error
	Delete(ctx context.Context, id string) error
}
