package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"accessibledn/internal/auth"
	"accessibledn/internal/models"
	"accessibledn/internal/repository"
)

// Domain errors for userbase flows.
var (
	// ErrInvalidCredentials is deliberately uniform: callers never learn
	// whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAuthorized      = errors.New("not authorized for this user")
)

// UserbaseService orchestrates credential handling, token issuance, and the
// user store.
type UserbaseService struct {
	users repository.Users
	creds *auth.Manager
}

func NewUserbaseService(users repository.Users, creds *auth.Manager) *UserbaseService {
	return &UserbaseService{users: users, creds: creds}
}

// Register validates and normalizes the credential triple, enforces
// uniqueness, stores the user, and issues a session token.
func (s *UserbaseService) Register(ctx context.Context, username, email, password string) (map[string]any, string, error) {
	u, err := s.creds.PrepareUser(username, email, password)
	if err != nil {
		return nil, "", err
	}

	// Pre-insert probe names the colliding field; the schema's UNIQUE
	// constraints catch concurrent duplicates the probe cannot see.
	field, err := s.users.FindConflict(ctx, u.Username, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("register %q: %w", u.Username, err)
	}
	if field != "" {
		return nil, "", &repository.DuplicateError{Field: field}
	}

	if err := s.users.Create(ctx, u); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, "", dup
		}
		return nil, "", fmt.Errorf("register %q: %w", u.Username, err)
	}

	token, err := s.creds.GenerateSessionToken(u.Username, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("register %q: %w", u.Username, err)
	}
	return sanitizedView(u), token, nil
}

// Login verifies credentials and issues a session token.
func (s *UserbaseService) Login(ctx context.Context, username, password string) (map[string]any, string, error) {
	u, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	ok, err := s.creds.VerifyPassword(password, u.Username, u.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.creds.GenerateSessionToken(u.Username, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	return sanitizedView(u), token, nil
}

// Session resolves a token to its user's sanitized record.
func (s *UserbaseService) Session(ctx context.Context, token string) (map[string]any, error) {
	claims, err := s.creds.ValidateSessionToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return sanitizedView(u), nil
}

// Delete removes the account named by username, provided the token's subject
// owns it.
func (s *UserbaseService) Delete(ctx context.Context, token, username string) error {
	claims, err := s.creds.ValidateSessionToken(token)
	if err != nil {
		return err
	}

	target := strings.ToLower(username)
	if claims.Subject != target {
		return ErrNotAuthorized
	}

	deleted, err := s.users.DeleteByUsername(ctx, target)
	if err != nil {
		return fmt.Errorf("delete %q: %w", target, err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// ParseToken validates a session token for middleware use.
func (s *UserbaseService) ParseToken(token string) (*auth.SessionClaims, error) {
	return s.creds.ValidateSessionToken(token)
}

func sanitizedView(u *models.User) map[string]any {
	return auth.SanitizeUser(map[string]any{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"created_at":    u.CreatedAt,
	})
}
