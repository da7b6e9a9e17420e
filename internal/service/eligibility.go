package service

import (
	"context"
	"errors"
	"fmt"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
)

type EligibilityService struct {
	repo     EligibilityRepository
	notifier Notifier
}

func NewEligibilityService(repo EligibilityRepository, notifier Notifier) *EligibilityService {
	return &EligibilityService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *EligibilityService) getTask(ctx context.Context, taskID int64) (*model.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: task %d: %w", ErrInvalidTask, taskID, err)
	}
	return task, nil
}

// EligibleParticipants returns the participants the task is aimed at.
// Participants that miss a constraint are left out, never reported.
func (s *EligibilityService) EligibleParticipants(ctx context.Context, taskID int64) ([]*model.Participant, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.FindEligibleParticipants(ctx, model.NewEligibilityCriteria(task))
	if err != nil {
		return nil, fmt.Errorf("failed to find eligible participants: %w", err)
	}

	return participants, nil
}

// NotifyEligible announces the task to every eligible participant and
// returns how many were notified.
func (s *EligibilityService) NotifyEligible(ctx context.Context, taskID int64) (int, error) {
	participants, err := s.EligibleParticipants(ctx, taskID)
	if err != nil {
		return 0, err
	}

	events := make([]model.Event, 0, len(participants))
	for _, p := range participants {
		event := model.NewEvent(model.EventTaskPublished, p.ID, map[string]any{
			"task_id": taskID,
		})
		event.TelegramID = p.TelegramID
		events = append(events, event)
	}
	publish(ctx, s.notifier, events...)

	return len(events), nil
}
