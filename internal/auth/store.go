package auth

import "context"

// UserStore describes the persistence operations the session flow requires.
// Create must enforce email uniqueness at the storage layer and return
// ErrAlreadyExists on a duplicate.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
