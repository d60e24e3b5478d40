package models

import "time"

// User is a stored userbase record. The password hash never leaves the
// server; handlers return sanitized views instead of this struct.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
