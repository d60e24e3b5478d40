package auth

import (
	"errors"
	"strings"
	"time"

	"accessibledn/internal/models"
)

const defaultTokenTTL = 24 * time.Hour

// Manager performs credential hashing and session-token operations with an
// injected signing secret. The secret is required: there is deliberately no
// built-in fallback value.
type Manager struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewManager builds a Manager. ttl <= 0 selects the default 24h token
// lifetime.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Manager{
		secret:   []byte(secret),
		tokenTTL: ttl,
		now:      time.Now,
	}, nil
}

// PrepareUser validates and normalizes a registration triple and derives the
// password hash. The first failing field is reported via ValidationError.
func (m *Manager) PrepareUser(username, email, password string) (*models.User, error) {
	if !ValidUsername(username) {
		return nil, &ValidationError{Field: "username", Reason: "must be 3-20 characters, alphanumeric with underscores or hyphens"}
	}
	if !ValidEmail(email) {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if !ValidPassword(password) {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	normalizedUsername := strings.ToLower(username)
	normalizedEmail := strings.ToLower(email)

	hash, err := m.HashPassword(password, normalizedUsername)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     normalizedUsername,
		Email:        normalizedEmail,
		PasswordHash: hash,
		CreatedAt:    m.now().UTC(),
	}, nil
}
