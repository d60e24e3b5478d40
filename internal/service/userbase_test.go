package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"accessibledn/internal/auth"
	"accessibledn/internal/models"
	"accessibledn/internal/repository"
)

// mockUsers is a lightweight in-test mock for repository.Users.
type mockUsers struct {
	CreateFn        func(ctx context.Context, u *models.User) error
	GetByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	FindConflictFn  func(ctx context.Context, username, email string) (string, error)
	DeleteFn        func(ctx context.Context, username string) (bool, error)

	created    []*models.User
	getCalls   []string
	deleteArgs []string
}

func (m *mockUsers) Create(ctx context.Context, u *models.User) error {
	m.created = append(m.created, u)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(ctx, username)
}

func (m *mockUsers) FindConflict(ctx context.Context, username, email string) (string, error) {
	if m.FindConflictFn != nil {
		return m.FindConflictFn(ctx, username, email)
	}
	return "", nil
}

func (m *mockUsers) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	m.deleteArgs = append(m.deleteArgs, username)
	return m.DeleteFn(ctx, username)
}

func newTestService(t *testing.T, users *mockUsers) (*UserbaseService, *auth.Manager) {
	t.Helper()
	creds, err := auth.NewManager("test-signing-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return NewUserbaseService(users, creds), creds
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	users := &mockUsers{}
	svc, creds := newTestService(t, users)

	view, token, err := svc.Register(context.Background(), "Alice", "Alice@Example.COM", "long enough")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if len(users.created) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(users.created))
	}
	stored := users.created[0]
	if stored.Username != "alice" || stored.Email != "alice@example.com" {
		t.Fatalf("stored fields not normalized: %+v", stored)
	}
	if stored.PasswordHash == "long enough" {
		t.Fatal("stored hash equals the raw password")
	}

	claims, err := creds.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("token subject: got %q, want %q", claims.Subject, "alice")
	}

	if view["username"] != "alice" {
		t.Fatalf("view username: got %v", view["username"])
	}
	if _, ok := view["password_hash"]; ok {
		t.Fatal("view contains password_hash")
	}
}

func TestRegister_ValidationError(t *testing.T) {
	users := &mockUsers{}
	svc, _ := newTestService(t, users)

	_, _, err := svc.Register(context.Background(), "x", "a@b.co", "long enough")
	var vErr *auth.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "username" {
		t.Fatalf("field: got %q, want username", vErr.Field)
	}
	if len(users.created) != 0 {
		t.Fatal("Create should not be called on validation failure")
	}
}

func TestRegister_DuplicateFromProbe(t *testing.T) {
	users := &mockUsers{
		FindConflictFn: func(ctx context.Context, username, email string) (string, error) {
			return "email", nil
		},
	}
	svc, _ := newTestService(t, users)

	_, _, err := svc.Register(context.Background(), "alice", "a@b.co", "long enough")
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.Field != "email" {
		t.Fatalf("field: got %q, want email", dup.Field)
	}
}

// A concurrent registration can slip past the probe; the constraint
// violation from Create must still surface as DuplicateError.
func TestRegister_DuplicateFromConstraint(t *testing.T) {
	users := &mockUsers{
		CreateFn: func(ctx context.Context, u *models.User) error {
			return &repository.DuplicateError{Field: "username"}
		},
	}
	svc, _ := newTestService(t, users)

	_, _, err := svc.Register(context.Background(), "alice", "a@b.co", "long enough")
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.Field != "username" {
		t.Fatalf("field: got %q, want username", dup.Field)
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	users := &mockUsers{}
	svc, creds := newTestService(t, users)

	hash, err := creds.HashPassword("letmein-letmein", "diana")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	users.GetByUsernameFn = func(ctx context.Context, username string) (*models.User, error) {
		if username != "diana" {
			t.Fatalf("expected lowercase lookup 'diana', got %q", username)
		}
		return &models.User{ID: 7, Username: "diana", Email: "d@example.com", PasswordHash: hash}, nil
	}

	view, token, err := svc.Login(context.Background(), "Diana", "letmein-letmein")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if view["username"] != "diana" {
		t.Fatalf("view username: got %v", view["username"])
	}
	if _, ok := view["password_hash"]; ok {
		t.Fatal("view contains password_hash")
	}
}

// Unknown user and wrong password must be indistinguishable to callers.
func TestLogin_UniformInvalidCredentials(t *testing.T) {
	users := &mockUsers{
		GetByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, nil
		},
	}
	svc, creds := newTestService(t, users)

	_, _, errUnknown := svc.Login(context.Background(), "ghost", "whatever8")
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}

	hash, err := creds.HashPassword("correct-correct", "eve")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	users.GetByUsernameFn = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{ID: 1, Username: "eve", Email: "e@example.com", PasswordHash: hash}, nil
	}

	_, _, errWrong := svc.Login(context.Background(), "eve", "wrong-wrong")
	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrong)
	}

	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("credential errors differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestLogin_RepoError(t *testing.T) {
	users := &mockUsers{
		GetByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	svc, _ := newTestService(t, users)

	_, _, err := svc.Login(context.Background(), "john", "whatever8")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected opaque store error, got %v", err)
	}
}

// --- Session ---

func TestSession_Success(t *testing.T) {
	users := &mockUsers{
		GetByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 3, Username: username, Email: "a@example.com", PasswordHash: "h"}, nil
		},
	}
	svc, creds := newTestService(t, users)

	token, err := creds.GenerateSessionToken("alice", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	view, err := svc.Session(context.Background(), token)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if view["username"] != "alice" {
		t.Fatalf("view username: got %v", view["username"])
	}
	if _, ok := view["password_hash"]; ok {
		t.Fatal("view contains password_hash")
	}
	if len(users.getCalls) != 1 || users.getCalls[0] != "alice" {
		t.Fatalf("expected lookup by token subject, got %v", users.getCalls)
	}
}

func TestSession_InvalidToken(t *testing.T) {
	svc, _ := newTestService(t, &mockUsers{})
	_, err := svc.Session(context.Background(), "garbage")
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSession_UserGone(t *testing.T) {
	users := &mockUsers{
		GetByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, nil
		},
	}
	svc, creds := newTestService(t, users)

	token, err := creds.GenerateSessionToken("alice", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := svc.Session(context.Background(), token); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete_Success(t *testing.T) {
	users := &mockUsers{
		DeleteFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc, creds := newTestService(t, users)

	token, err := creds.GenerateSessionToken("alice", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if err := svc.Delete(context.Background(), token, "Alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(users.deleteArgs) != 1 || users.deleteArgs[0] != "alice" {
		t.Fatalf("expected normalized delete target, got %v", users.deleteArgs)
	}
}

func TestDelete_SubjectMismatch(t *testing.T) {
	users := &mockUsers{
		DeleteFn: func(ctx context.Context, username string) (bool, error) {
			t.Fatal("DeleteByUsername should not be called")
			return false, nil
		},
	}
	svc, creds := newTestService(t, users)

	token, err := creds.GenerateSessionToken("alice", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if err := svc.Delete(context.Background(), token, "bob"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestDelete_UserGone(t *testing.T) {
	users := &mockUsers{
		DeleteFn: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
	}
	svc, creds := newTestService(t, users)

	token, err := creds.GenerateSessionToken("alice", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if err := svc.Delete(context.Background(), token, "alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDelete_InvalidToken(t *testing.T) {
	svc, _ := newTestService(t, &mockUsers{})
	if err := svc.Delete(context.Background(), "garbage", "alice"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
