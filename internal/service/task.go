package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
)

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Editable reports whether the task's reward and verifier configuration
// may still change: no submissions yet and not finished.
func (s *TaskService) Editable(ctx context.Context, taskID int64) (bool, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrTaskNotFound
		}
		return false, fmt.Errorf("failed to get task: %w", err)
	}

	if task.Status(s.now()) == model.TaskStatusFinished {
		return false, nil
	}

	count, err := s.repo.CountTaskSubmissions(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to count task submissions: %w", err)
	}

	return count == 0, nil
}
