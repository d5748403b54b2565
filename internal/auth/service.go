package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ideadrop.org/internal/token"
)

const (
	defaultAccessTTL  = time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
)

// Service orchestrates registration, login and session renewal over the
// token service and the user store. It keeps no per-session state; the
// refresh token itself is the only session artifact.
type Service struct {
	users      UserStore
	tokens     *token.Service
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithAccessTTL overrides the access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// NewService constructs the session flow controller.
func NewService(users UserStore, tokens *token.Service, opts ...ServiceOption) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RefreshTTL reports the refresh token lifetime; the HTTP layer uses it for
// the cookie max-age.
func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Register creates a user and issues a fresh token pair.
func (s *Service) Register(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Session{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	// The store enforces email uniqueness; a concurrent duplicate insert
	// still surfaces as ErrAlreadyExists here.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return Session{}, ErrAlreadyExists
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return s.mintSession(user)
}

// Login verifies credentials and issues a fresh token pair. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.mintSession(user)
}

// Refresh verifies a refresh token and mints a new access token. The refresh
// token is deliberately not rotated; the returned session carries no refresh
// token and the caller must not set a new cookie.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return Session{}, err
	}

	user, err := s.users.Find(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	accessToken, accessExp, err := s.tokens.Issue(user.ID, s.accessTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	return Session{
		User:            user,
		AccessToken:     accessToken,
		AccessExpiresAt: accessExp,
	}, nil
}

func (s *Service) mintSession(user *User) (Session, error) {
	accessToken, accessExp, err := s.tokens.Issue(user.ID, s.accessTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, refreshExp, err := s.tokens.Issue(user.ID, s.refreshTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return Session{
		User:             user,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
