package service

import (
	"context"

	"accessibledn/internal/auth"
	"accessibledn/internal/repository"
)

// Userbase exposes the account flows consumed by the HTTP layer. User views
// are sanitized maps: password material never appears in them.
type Userbase interface {
	Register(ctx context.Context, username, email, password string) (map[string]any, string, error)
	Login(ctx context.Context, username, password string) (map[string]any, string, error)
	Session(ctx context.Context, token string) (map[string]any, error)
	Delete(ctx context.Context, token, username string) error
	ParseToken(token string) (*auth.SessionClaims, error)
}

type Service struct {
	Userbase
}

func NewService(repos *repository.Repository, creds *auth.Manager) *Service {
	return &Service{
		Userbase: NewUserbaseService(repos.Users, creds),
	}
}
