package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
)

type ReferralService struct {
	repo ReferralRepository
	now  func() time.Time
}

func NewReferralService(repo ReferralRepository) *ReferralService {
	return &ReferralService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Attribute credits a referrer when a participant completes their first
// task in a project. It must run inside the approval transaction, after the
// submission has been moved to done, so the done count includes it.
// Returns nil when nothing was attributed.
func (s *ReferralService) Attribute(ctx context.Context, participantID int64, task *model.Task) (*model.Referral, error) {
	if task.ProjectID == nil {
		return nil, nil
	}
	projectID := *task.ProjectID

	done, err := s.repo.CountDoneSubmissionsInProject(ctx, participantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count done submissions: %w", err)
	}
	if done != 1 {
		return nil, nil
	}

	code, err := s.repo.GetProjectReferralCode(ctx, participantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral code: %w", err)
	}
	if code == nil || *code == "" {
		return nil, nil
	}

	source, err := s.repo.FindSubmissionByReferralCode(ctx, *code, participantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find referrer submission: %w", err)
	}

	ref := &model.Referral{
		TaskID:        source.TaskID,
		ParticipantID: source.ParticipantID,
		ReferralID:    participantID,
		SubmissionID:  source.ID,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateReferral(ctx, ref); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	return ref, nil
}

func (s *ReferralService) ListReferrals(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	refs, err := s.repo.ListReferrals(ctx, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return refs, nil
}
