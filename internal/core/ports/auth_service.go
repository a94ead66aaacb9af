package ports

import (
	"context"

	"github.com/tasktracker/task-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	// Login verifies the credentials and returns a signed bearer token. A
	// wrong password and an unknown email both yield ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
