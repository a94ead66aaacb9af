package ports

import (
	"context"

	"github.com/tasktracker/task-service/internal/core/domain"
)

// TaskUpdate carries the mutable fields of a task. Nil means "leave as is".
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

// TaskRepository defines persistence operations for tasks. Every operation
// that addresses an existing task takes the owner's user ID as a mandatory
// filter; a task belonging to someone else is indistinguishable from a
// missing one (ErrTaskNotFound either way).
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	ListByOwner(ctx context.Context, userID string) ([]*domain.Task, error)
	Update(ctx context.Context, id, userID string, update TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
}
