package service

import "errors"

var (
	// ErrUserAlreadyExists is returned when signing up with an email that is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no account matches the email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordTooLong is returned for passwords longer than bcrypt's 72 byte input limit.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidCredentials indicates the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBookAlreadyExists is returned when a book with the same name is already stored.
	ErrBookAlreadyExists = errors.New("book already exists")
	// ErrForbidden is returned by the owner-only policy when the caller does not own the book.
	ErrForbidden = errors.New("book belongs to another user")
	// ErrExportUnavailable is returned when no object storage is configured for exports.
	ErrExportUnavailable = errors.New("export storage not configured")
)
