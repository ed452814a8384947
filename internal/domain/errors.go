package domain

import "errors"

// Sentinel errors shared across repositories and services.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is not allowed to act on the
	// resource. Ownership-scoped queries also return it when the resource does
	// not exist, so callers cannot probe for existence.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for semantically invalid input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidCredentials is returned on login failure. It does not reveal
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
