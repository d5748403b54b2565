package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"ideadrop.org/internal/token"
)

func newTestFlow(t *testing.T, opts ...token.Option) (*Service, *MemoryStore) {
	t.Helper()
	tokens, err := token.NewService([]byte("test-secret"), opts...)
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}
	store := NewMemoryStore()
	return NewService(store, tokens), store
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestFlow(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.User.ID == "" {
		t.Fatal("expected user id to be assigned")
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if !sess.RefreshExpiresAt.After(sess.AccessExpiresAt) {
		t.Fatalf("refresh expiry %v should outlive access expiry %v", sess.RefreshExpiresAt, sess.AccessExpiresAt)
	}

	login, err := svc.Login(ctx, "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != sess.User.ID {
		t.Fatalf("login resolved a different user: %s vs %s", login.User.ID, sess.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestFlow(t)
	ctx := context.Background()

	cases := []struct{ name, email, password string }{
		{"", "ada@example.com", "hunter2"},
		{"Ada", "", "hunter2"},
		{"Ada", "ada@example.com", ""},
		{"   ", "ada@example.com", "hunter2"},
	}
	for _, c := range cases {
		if _, err := svc.Register(ctx, c.name, c.email, c.password); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%q,%q): expected ErrInvalidInput, got %v", c.name, c.email, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestFlow(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "Other Ada", "Ada@Example.com", "different"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	svc, _ := newTestFlow(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Wrong password and unknown email must be the same error.
	_, wrongPass := svc.Login(ctx, "ada@example.com", "nope")
	_, noUser := svc.Login(ctx, "ghost@example.com", "hunter2")
	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}

	if _, err := svc.Login(ctx, "", "hunter2"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRefreshIssuesNewAccessTokenOnly(t *testing.T) {
	svc, _ := newTestFlow(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	renewed, err := svc.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if renewed.AccessToken == "" || renewed.AccessToken == sess.AccessToken {
		t.Fatal("expected a new distinct access token")
	}
	if renewed.RefreshToken != "" {
		t.Fatal("refresh must not rotate the refresh token")
	}
	if renewed.User.ID != sess.User.ID {
		t.Fatalf("refresh resolved a different user: %s vs %s", renewed.User.ID, sess.User.ID)
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	svc, _ := newTestFlow(t)

	if _, err := svc.Refresh(context.Background(), "definitely-not-a-jwt"); !errors.Is(err, token.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	issued := time.Now().UTC()
	clock := issued
	svc, _ := newTestFlow(t, token.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	sess, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	clock = issued.Add(31 * 24 * time.Hour)
	if _, err := svc.Refresh(ctx, sess.RefreshToken); !errors.Is(err, token.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc, store := newTestFlow(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := store.Delete(ctx, sess.User.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Refresh(ctx, sess.RefreshToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := VerifyPassword(hash, "hunter2"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
