package ports

import (
	"context"

	"github.com/tasktracker/task-service/internal/core/domain"
)

// TaskService defines use-case operations on tasks. The userID argument is
// always the authenticated caller's identity, never client-supplied data.
type TaskService interface {
	List(ctx context.Context, userID string) ([]*domain.Task, error)
	Create(ctx context.Context, userID, title string) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, update TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}
