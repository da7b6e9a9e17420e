package mocks

import (
	"context"

	"ambassador_engine/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Report(ctx context.Context, submissionID, participantID int64, report string) error {
	return m.Called(ctx, submissionID, participantID, report).Error(0)
}

func (m *MockSubmissionService) TakeOnRevision(ctx context.Context, submissionID, managerID int64) error {
	return m.Called(ctx, submissionID, managerID).Error(0)
}

func (m *MockSubmissionService) Approve(ctx context.Context, submissionID int64, rating int) error {
	return m.Called(ctx, submissionID, rating).Error(0)
}

func (m *MockSubmissionService) Reject(ctx context.Context, submissionID int64) error {
	return m.Called(ctx, submissionID).Error(0)
}

func (m *MockSubmissionService) Return(ctx context.Context, submissionID int64, comment string) error {
	return m.Called(ctx, submissionID, comment).Error(0)
}

func (m *MockSubmissionService) Notes(ctx context.Context, submissionID int64) ([]*model.SubmissionNote, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubmissionNote), args.Error(1)
}

func (m *MockSubmissionService) Payouts(ctx context.Context, submissionID int64) ([]*model.RewardPayout, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RewardPayout), args.Error(1)
}

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Rank(ctx context.Context, criteria model.LeaderboardCriteria) (*model.LeaderboardPage, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaderboardPage), args.Error(1)
}

type MockLevelService struct {
	mock.Mock
}

func (m *MockLevelService) CheckLevelUp(ctx context.Context, participantID int64) (*model.LevelUpCheck, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LevelUpCheck), args.Error(1)
}

func (m *MockLevelService) CanLevelUp(ctx context.Context, participantID int64) (bool, error) {
	args := m.Called(ctx, participantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLevelService) LevelUp(ctx context.Context, participantID int64) error {
	return m.Called(ctx, participantID).Error(0)
}

type MockEligibilityService struct {
	mock.Mock
}

func (m *MockEligibilityService) EligibleParticipants(ctx context.Context, taskID int64) ([]*model.Participant, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

func (m *MockEligibilityService) NotifyEligible(ctx context.Context, taskID int64) (int, error) {
	args := m.Called(ctx, taskID)
	return args.Int(0), args.Error(1)
}

type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) ListReferrals(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Referral), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Editable(ctx context.Context, taskID int64) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

type MockParticipantService struct {
	mock.Mock
}

func (m *MockParticipantService) GetParticipantByTelegramID(ctx context.Context, telegramID int64) (*model.Participant, error) {
	args := m.Called(ctx, telegramID)
	return participantOrNil(args.Get(0)), args.Error(1)
}

func (m *MockParticipantService) LevelPoints(ctx context.Context, participantID int64) ([]*model.LevelPoint, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LevelPoint), args.Error(1)
}
