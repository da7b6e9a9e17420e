package service

import (
	"context"
	"errors"
	"fmt"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
)

const (
	reasonNoThreshold    = "no points threshold configured for current level"
	reasonNoActivity     = "no approved activity membership"
	reasonNotEnoughScore = "not enough points and leaderboard place too low"
)

type LevelService struct {
	repo     LevelRepository
	rules    LevelRules
	notifier Notifier
	cache    LeaderboardCache
}

func NewLevelService(repo LevelRepository, rules LevelRules, notifier Notifier, cache LeaderboardCache) *LevelService {
	return &LevelService{
		repo:     repo,
		rules:    rules,
		notifier: notifier,
		cache:    cache,
	}
}

// CheckLevelUp evaluates every level-up precondition and reports the first
// one that fails.
func (s *LevelService) CheckLevelUp(ctx context.Context, participantID int64) (*model.LevelUpCheck, error) {
	participant, err := s.repo.GetParticipant(ctx, participantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return s.check(ctx, participant)
}

func (s *LevelService) check(ctx context.Context, participant *model.Participant) (*model.LevelUpCheck, error) {
	result := &model.LevelUpCheck{
		ParticipantID: participant.ID,
		Level:         participant.Level,
		Points:        participant.Points,
	}

	needed, ok := s.rules.PointsNeededForLevel(participant.Level)
	if !ok {
		result.Reason = reasonNoThreshold
		return result, nil
	}
	result.PointsNeeded = &needed

	activities, err := s.repo.CountApprovedActivities(ctx, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved activities: %w", err)
	}
	result.ApprovedActivities = activities
	if activities == 0 {
		result.Reason = reasonNoActivity
		return result, nil
	}

	if participant.Points >= needed {
		result.Eligible = true
		return result, nil
	}

	position, err := s.repo.GetLeaderboardPosition(ctx, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard position: %w", err)
	}
	result.LeaderboardPosition = position

	if position > 0 && position <= s.rules.MinimumLeaderboardPlace() {
		result.Eligible = true
		return result, nil
	}

	result.Reason = reasonNotEnoughScore
	return result, nil
}

func (s *LevelService) CanLevelUp(ctx context.Context, participantID int64) (bool, error) {
	result, err := s.CheckLevelUp(ctx, participantID)
	if err != nil {
		return false, err
	}
	return result.Eligible, nil
}

// LevelUp moves the participant to the next level and resets their points.
// A failed precondition is returned as a LevelUpError.
func (s *LevelService) LevelUp(ctx context.Context, participantID int64) error {
	var level int
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		participant, err := s.repo.GetParticipant(ctx, participantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrParticipantNotFound
			}
			return fmt.Errorf("failed to get participant: %w", err)
		}

		result, err := s.check(ctx, participant)
		if err != nil {
			return err
		}
		if !result.Eligible {
			return &LevelUpError{Reason: result.Reason}
		}

		err = s.repo.LevelUpParticipant(ctx, participant.ID, participant.Level)
		if err != nil {
			if errors.Is(err, repository.ErrLevelConflict) {
				return &LevelUpError{Reason: "level changed concurrently"}
			}
			return fmt.Errorf("failed to level up participant: %w", err)
		}

		level = participant.Level + 1
		return nil
	})
	if err != nil {
		return err
	}

	invalidateLeaderboard(ctx, s.cache)
	publish(ctx, s.notifier, model.NewEvent(model.EventParticipantLeveledUp, participantID, map[string]any{
		"level": level,
	}))

	return nil
}
