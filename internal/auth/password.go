package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Storage cost for the second hashing stage.
const bcryptCost = 12

// derivePrehash computes the first stage of the two-stage password scheme:
// a salt bound to the username and keyed by the server secret, then an HMAC
// of the password under that salt. Both steps are deterministic functions of
// (secret, username, password), so hashing and verification always derive
// identical material. The base64 output also stays well under bcrypt's
// 72-byte input limit.
func (m *Manager) derivePrehash(password, username string) string {
	saltMac := hmac.New(sha256.New, m.secret)
	saltMac.Write([]byte(strings.ToLower(username)))
	salt := saltMac.Sum(nil)

	mac := hmac.New(sha256.New, salt)
	mac.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// HashPassword derives the storage hash for a password: the username-bound
// prehash is run through bcrypt with its own random salt at a fixed cost, so
// a leaked storage hash exposes neither the password nor plain
// username-derived salt material.
func (m *Manager) HashPassword(password, username string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	prehash := m.derivePrehash(password, username)
	hash, err := bcrypt.GenerateFromPassword([]byte(prehash), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash for the
// given username. Comparison is constant-time via bcrypt. A non-nil error is
// returned only for failures other than a mismatch.
func (m *Manager) VerifyPassword(password, username, storedHash string) (bool, error) {
	prehash := m.derivePrehash(password, username)
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(prehash))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}
