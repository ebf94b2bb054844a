package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// PasswordAuthenticator checks a single admin account against a bcrypt hash
// taken from configuration.
type PasswordAuthenticator struct {
	username     string
	passwordHash []byte
}

// NewPasswordAuthenticator creates an authenticator for one admin account.
func NewPasswordAuthenticator(username, passwordHash string) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Authenticate verifies the username and password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1

	// Always run bcrypt so a wrong username costs the same as a wrong password.
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(credential)); err != nil || !userOK {
		return "", ErrInvalidCredentials
	}

	return a.username, nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
