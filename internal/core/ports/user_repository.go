package ports

import (
	"context"

	"github.com/tasktracker/task-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// FindByEmail returns the user stored under email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists a new user. A duplicate email yields ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
