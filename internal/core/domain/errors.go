package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrTaskNotFound covers both a genuinely absent task and a task owned
	// by another user, so a caller cannot probe for foreign task IDs.
	ErrTaskNotFound = errors.New("task not found")

	ErrTitleRequired = errors.New("title is required")
)
