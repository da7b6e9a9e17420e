package service

import (
	"context"
	"errors"
	"fmt"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
)

type ParticipantService struct {
	repo ParticipantRepository
}

func NewParticipantService(repo ParticipantRepository) *ParticipantService {
	return &ParticipantService{repo: repo}
}

func (s *ParticipantService) GetParticipantByTelegramID(ctx context.Context, telegramID int64) (*model.Participant, error) {
	p, err := s.repo.GetParticipantByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// LevelPoints returns the participant's ledger rows across levels, projects
// and activities.
func (s *ParticipantService) LevelPoints(ctx context.Context, participantID int64) ([]*model.LevelPoint, error) {
	if _, err := s.repo.GetParticipant(ctx, participantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	points, err := s.repo.ListLevelPoints(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list level points: %w", err)
	}
	return points, nil
}
