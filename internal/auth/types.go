package auth

import "time"

// User is an account that can own ideas and hold a session.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the result of a successful register, login or refresh. The
// refresh token is only populated on paths that set the cookie.
type Session struct {
	User             *User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
