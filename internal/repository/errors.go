package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateGoogleID is returned when a Google identity is already bound
	// to another user
	ErrDuplicateGoogleID = errors.New("google account already linked to another user")

	// ErrDuplicateCategory is returned when a category name or slug is taken
	ErrDuplicateCategory = errors.New("category with this name or slug already exists")

	// ErrForeignKey is returned when a referenced record does not exist
	ErrForeignKey = errors.New("referenced record does not exist")
)
