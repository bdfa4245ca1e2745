package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a hash of an unguessable value, compared against on the
// user-not-found login path so that lookup misses cost the same as password
// mismatches.
var dummyHash = []byte("$2a$12$wJ9mLkXbGxn0uF3qzVh1uOJ3eYvT5C/1kq0dM8nHhRfystK0S6u7W")

// HashPassword hashes a password using bcrypt
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// DummyCompare burns one bcrypt comparison and always reports false.
func DummyCompare(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
