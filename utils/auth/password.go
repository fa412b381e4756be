package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Passwords are stored as bcrypt hashes.
const (
	bcryptCost        = 12
	minPasswordLength = 8
)

var (
	// ErrWeakPassword is returned when a password fails the length policy.
	ErrWeakPassword = errors.New("password is shorter than 8 characters")
	// ErrWrongPassword is returned when a password does not match its hash.
	ErrWrongPassword = errors.New("password does not match")
)

// IsPasswordValid reports whether a plaintext password meets the policy.
func IsPasswordValid(password string) bool {
	return len(password) >= minPasswordLength
}

// HashPassword hashes a plaintext password for storage. Passwords below
// the minimum length are rejected before hashing.
func HashPassword(password string) (string, error) {
	if !IsPasswordValid(password) {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a stored hash against a login attempt.
func VerifyPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrWrongPassword
	}
	return err
}
