package repository

import (
	"context"

	"accessibledn/internal/models"
	"accessibledn/internal/repository/db"
)

// Users is the storage contract for userbase records.
type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindConflict(ctx context.Context, username, email string) (string, error)
	DeleteByUsername(ctx context.Context, username string) (bool, error)
}

type Repository struct {
	Users Users
}

func NewRepository(store *db.Store) *Repository {
	return &Repository{
		Users: NewUserRepository(store),
	}
}
