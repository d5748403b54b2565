package idea

import "time"

// Idea is a shared note owned by a user.
type Idea struct {
	ID          string
	Title       string
	Summary     string
	Description string
	Tags        []string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input carries the client-editable fields of an idea.
type Input struct {
	Title       string
	Summary     string
	Description string
	Tags        []string
}
