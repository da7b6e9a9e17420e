package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
	"ambassador_engine/internal/reward"

	"github.com/google/uuid"
)

type SubmissionService struct {
	repo      SubmissionRepository
	rewards   RewardDispatcher
	referrals *ReferralService
	notifier  Notifier
	cache     LeaderboardCache
	now       func() time.Time
}

func NewSubmissionService(
	repo SubmissionRepository,
	rewards RewardDispatcher,
	referrals *ReferralService,
	notifier Notifier,
	cache LeaderboardCache,
) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		rewards:   rewards,
		referrals: referrals,
		notifier:  notifier,
		cache:     cache,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *SubmissionService) getSubmission(ctx context.Context, submissionID int64) (*model.Submission, error) {
	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// transition applies a status change. A concurrent writer that got there
// first surfaces as a TransitionError, same as a stale status.
func (s *SubmissionService) transition(ctx context.Context, action string, sub *model.Submission, t *model.SubmissionTransition) error {
	if sub.Status.IsTerminal() || sub.Status != t.From {
		return &TransitionError{Action: action, From: sub.Status}
	}

	err := s.repo.UpdateSubmissionStatus(ctx, t)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return &TransitionError{Action: action, From: sub.Status}
		case errors.Is(err, repository.ErrNotFound):
			return ErrSubmissionNotFound
		default:
			return fmt.Errorf("failed to %s submission: %w", action, err)
		}
	}

	return nil
}

// Report files the participant's report and puts the submission in the
// review queue.
func (s *SubmissionService) Report(ctx context.Context, submissionID, participantID int64, report string) error {
	sub, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.ParticipantID != participantID {
		return ErrNotSubmissionOwner
	}

	now := s.now()
	err = s.transition(ctx, "report", sub, &model.SubmissionTransition{
		SubmissionID: sub.ID,
		From:         model.SubmissionInProgress,
		To:           model.SubmissionWaitingForReview,
		Report:       &report,
		ReportedAt:   &now,
	})
	if err != nil {
		return err
	}

	publish(ctx, s.notifier, model.NewEvent(model.EventSubmissionReported, sub.ParticipantID, map[string]any{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
	}))

	return nil
}

func (s *SubmissionService) TakeOnRevision(ctx context.Context, submissionID, managerID int64) error {
	sub, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.transition(ctx, "take on revision", sub, &model.SubmissionTransition{
		SubmissionID: sub.ID,
		From:         model.SubmissionWaitingForReview,
		To:           model.SubmissionOnRevision,
		ManagerID:    &managerID,
		RevisedAt:    &now,
	})
	if err != nil {
		return err
	}

	publish(ctx, s.notifier, model.NewEvent(model.EventSubmissionTakenOnRevision, sub.ParticipantID, map[string]any{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
		"manager_id":    managerID,
	}))

	return nil
}

// Approve completes a submission under review. The status change, reward
// payouts, participant points, ledger row and referral credit commit
// together or not at all. The status compare-and-set runs first so a losing
// concurrent approval never reaches the reward handlers.
func (s *SubmissionService) Approve(ctx context.Context, submissionID int64, rating int) error {
	if rating < 0 {
		return ErrInvalidRating
	}

	var events []model.Event
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		sub, err := s.getSubmission(ctx, submissionID)
		if err != nil {
			return err
		}

		now := s.now()
		err = s.transition(ctx, "approve", sub, &model.SubmissionTransition{
			SubmissionID: sub.ID,
			From:         model.SubmissionOnRevision,
			To:           model.SubmissionDone,
			Rating:       &rating,
			CompletedAt:  &now,
		})
		if err != nil {
			return err
		}

		task, err := s.repo.GetTask(ctx, sub.TaskID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to get task: %w", err)
		}

		participant, err := s.repo.GetParticipant(ctx, sub.ParticipantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrParticipantNotFound
			}
			return fmt.Errorf("failed to get participant: %w", err)
		}

		for _, rw := range task.Rewards {
			err := s.rewards.Grant(ctx, reward.Grant{
				Reward:       rw,
				Participant:  participant,
				Task:         task,
				SubmissionID: sub.ID,
			})
			if err != nil {
				return fmt.Errorf("%w: %s reward %d: %w", ErrRewardHandlerFailure, rw.Type, rw.ID, err)
			}
		}

		if err := s.repo.AddParticipantPoints(ctx, participant.ID, rating); err != nil {
			return fmt.Errorf("failed to add participant points: %w", err)
		}

		// credited to the level held at approval time
		if err := s.repo.AddLevelPoints(ctx, model.NewLevelPointKey(participant, task), rating); err != nil {
			return fmt.Errorf("failed to add level points: %w", err)
		}

		ref, err := s.referrals.Attribute(ctx, participant.ID, task)
		if err != nil {
			return err
		}

		approved := model.NewEvent(model.EventSubmissionApproved, participant.ID, map[string]any{
			"submission_id": sub.ID,
			"task_id":       task.ID,
			"rating":        rating,
		})
		approved.TelegramID = participant.TelegramID
		events = append(events, approved)

		if ref != nil {
			events = append(events, model.NewEvent(model.EventReferralCreated, ref.ParticipantID, map[string]any{
				"referral_id": ref.ReferralID,
				"task_id":     ref.TaskID,
			}))
		}

		return nil
	})
	if err != nil {
		return err
	}

	invalidateLeaderboard(ctx, s.cache)
	publish(ctx, s.notifier, events...)

	return nil
}

func (s *SubmissionService) Reject(ctx context.Context, submissionID int64) error {
	sub, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return err
	}

	err = s.transition(ctx, "reject", sub, &model.SubmissionTransition{
		SubmissionID: sub.ID,
		From:         model.SubmissionOnRevision,
		To:           model.SubmissionRejected,
	})
	if err != nil {
		return err
	}

	publish(ctx, s.notifier, model.NewEvent(model.EventSubmissionRejected, sub.ParticipantID, map[string]any{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
	}))

	return nil
}

// Return sends the submission back with a comment kept as an audit note.
func (s *SubmissionService) Return(ctx context.Context, submissionID int64, comment string) error {
	var sub *model.Submission
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.getSubmission(ctx, submissionID)
		if err != nil {
			return err
		}

		err = s.transition(ctx, "return", sub, &model.SubmissionTransition{
			SubmissionID: sub.ID,
			From:         model.SubmissionOnRevision,
			To:           model.SubmissionReturned,
		})
		if err != nil {
			return err
		}

		err = s.repo.CreateSubmissionNote(ctx, &model.SubmissionNote{
			ID:            uuid.New(),
			SubmissionID:  sub.ID,
			ParticipantID: sub.ParticipantID,
			Body:          comment,
			CreatedAt:     s.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to save return comment: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.notifier, model.NewEvent(model.EventSubmissionReturned, sub.ParticipantID, map[string]any{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
		"comment":       comment,
	}))

	return nil
}

// Notes returns the audit notes left on a submission, oldest first.
func (s *SubmissionService) Notes(ctx context.Context, submissionID int64) ([]*model.SubmissionNote, error) {
	if _, err := s.getSubmission(ctx, submissionID); err != nil {
		return nil, err
	}

	notes, err := s.repo.ListSubmissionNotes(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submission notes: %w", err)
	}
	return notes, nil
}

// Payouts returns the reward payouts journaled when the submission was
// approved.
func (s *SubmissionService) Payouts(ctx context.Context, submissionID int64) ([]*model.RewardPayout, error) {
	if _, err := s.getSubmission(ctx, submissionID); err != nil {
		return nil, err
	}

	payouts, err := s.repo.ListRewardPayouts(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reward payouts: %w", err)
	}
	return payouts, nil
}
