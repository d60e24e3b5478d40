package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"accessibledn/internal/models"
	"accessibledn/internal/repository/db"

	"github.com/jackc/pgx/v5/pgconn"
)

// DuplicateError reports which field collided with an existing record.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// UserRepository stores user records through the shared store handle.
type UserRepository struct {
	store *db.Store
}

func NewUserRepository(store *db.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Ensure implementation of the Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	selectUserByUsernameSQL = `SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`

	selectConflictSQL = `SELECT username, email FROM users WHERE username = ? OR email = ?`

	deleteUserSQL = `DELETE FROM users WHERE username = ?`
)

// Create inserts a new user. Unique-constraint violations surface as
// DuplicateError naming the colliding field.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.store.Exec(ctx, insertUserSQL, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if dup := duplicateFieldFromErr(err); dup != "" {
			return &DuplicateError{Field: dup}
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.store.QueryRow(ctx, selectUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

// FindConflict reports which field ("username" or "email") already exists,
// or "" when both are free. This pre-insert probe names the colliding field
// precisely; the schema's UNIQUE constraints remain the authoritative guard
// against concurrent duplicates.
func (r *UserRepository) FindConflict(ctx context.Context, username, email string) (string, error) {
	var existingUsername, existingEmail string
	err := r.store.QueryRow(ctx, selectConflictSQL, username, email).
		Scan(&existingUsername, &existingEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("check user conflict: %w", err)
	}
	if existingUsername == username {
		return "username", nil
	}
	return "email", nil
}

// DeleteByUsername removes a user and reports whether a row was deleted.
func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	affected, err := r.store.Exec(ctx, deleteUserSQL, username)
	if err != nil {
		return false, fmt.Errorf("delete user %q: %w", username, err)
	}
	return affected, nil
}

// duplicateFieldFromErr maps driver-specific unique-violation errors to the
// colliding column. modernc.org/sqlite reports "UNIQUE constraint failed:
// users.<col>"; pgx reports SQLSTATE 23505 with the constraint name.
func duplicateFieldFromErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return "email"
		}
		return "username"
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "users.email") {
			return "email"
		}
		return "username"
	}
	return ""
}
