package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stock-tracker/internal/repository"
	"stock-tracker/internal/repository/sqlite"
)

func setupUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return repo
}

func newTestUserService(t *testing.T) UserService {
	t.Helper()
	return NewUserService(setupUserRepo(t), "test-secret", time.Hour)
}

func TestRegisterIssuesTokenAndStripsPassword(t *testing.T) {
	svc := newTestUserService(t)

	user, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected a token on registration")
	}
	if user.ID == "" {
		t.Error("expected a user id")
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in register response")
	}

	authed, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.ID != user.ID || authed.Email != "alice@example.com" {
		t.Errorf("authenticated wrong user: %+v", authed)
	}
	if authed.PasswordHash != "" {
		t.Error("password hash leaked in authenticate response")
	}
}

func TestRegisterDuplicateEmailOrUsername(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	// same email, different username
	if _, _, err := svc.Register(ctx, "bob", "alice@example.com", "secret123"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email: expected ErrUserExists, got %v", err)
	}
	// same username, different email
	if _, _, err := svc.Register(ctx, "alice", "bob@example.com", "secret123"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username: expected ErrUserExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	cases := []struct {
		name, username, email, password string
	}{
		{"missing username", "", "a@example.com", "secret123"},
		{"missing email", "alice", "", "secret123"},
		{"short password", "alice", "a@example.com", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Register(ctx, tc.username, tc.email, tc.password); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestLoginEnumerationResistance(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "alice@example.com", "wrong-password")
	_, _, unknownEmail := svc.Login(ctx, "ghost@example.com", "secret123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	// identical error for both, so callers cannot enumerate accounts
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || user.Username != "alice" {
		t.Errorf("unexpected login result: user=%+v token=%q", user, token)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	repo := setupUserRepo(t)
	svc := NewUserService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: expected ErrInvalidToken, got %v", err)
	}

	// token signed with a different key
	other := NewUserService(repo, "other-secret", time.Hour)
	_, token, err := other.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong key: expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	repo := setupUserRepo(t)
	expired := NewUserService(repo, "test-secret", -time.Hour)
	ctx := context.Background()

	_, token, err := expired.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	svc := NewUserService(repo, "test-secret", time.Hour)
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	repo := setupUserRepo(t)
	svc := NewUserService(repo, "test-secret", time.Hour)
	// valid token whose subject never existed in storage
	ghost := NewUserService(setupUserRepo(t), "test-secret", time.Hour)
	ctx := context.Background()

	_, token, err := ghost.Register(ctx, "ghost", "ghost@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
