package model

import "errors"

var (
	// ErrNotFound is returned by storage when a key is missing.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail     = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("you must be signed in")
	ErrLoadFailure        = errors.New("stored data is malformed")
	ErrOperationFailure   = errors.New("operation failed")
	ErrInvalidArgument    = errors.New("invalid argument")
)
