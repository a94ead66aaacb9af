package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktracker/task-service/internal/api/metrics"
	"github.com/tasktracker/task-service/internal/core/domain"
	"github.com/tasktracker/task-service/internal/core/ports"
)

// TaskService implements owner-scoped task operations. The userID passed to
// every method is the authenticated caller's identity; it is the only owner
// a task can ever be created with or addressed through.
type TaskService struct {
	repo ports.TaskRepository
	log  zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *TaskService) Create(ctx context.Context, userID, title string) (*domain.Task, error) {
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:     title,
		Completed: false,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.Inc()
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
	if update.Title == nil && update.Completed == nil {
		return nil, domain.ErrTitleRequired
	}
	if update.Title != nil && *update.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	return s.repo.Update(ctx, taskID, userID, update)
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.repo.Delete(ctx, taskID, userID); err != nil {
		return err
	}
	metrics.TasksDeletedTotal.Inc()
	return nil
}
