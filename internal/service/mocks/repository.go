package mocks

import (
	"context"

	"ambassador_engine/internal/model"

	"github.com/stretchr/testify/mock"
)

// Transactor runs the transaction body inline. Rollback is covered by the
// sqlite-backed tests.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func submissionOrNil(v interface{}) *model.Submission {
	if v == nil {
		return nil
	}
	return v.(*model.Submission)
}

func taskOrNil(v interface{}) *model.Task {
	if v == nil {
		return nil
	}
	return v.(*model.Task)
}

func participantOrNil(v interface{}) *model.Participant {
	if v == nil {
		return nil
	}
	return v.(*model.Participant)
}

type MockSubmissionRepository struct {
	mock.Mock
	Transactor
}

func (m *MockSubmissionRepository) GetSubmission(ctx context.Context, submissionID int64) (*model.Submission, error) {
	args := m.Called(ctx, submissionID)
	return submissionOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSubmissionRepository) GetTask(ctx context.Context, taskID int64) (*model.Task, error) {
	args := m.Called(ctx, taskID)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSubmissionRepository) GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error) {
	args := m.Called(ctx, participantID)
	return participantOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateSubmissionStatus(ctx context.Context, transition *model.SubmissionTransition) error {
	args := m.Called(ctx, transition)
	return args.Error(0)
}

func (m *MockSubmissionRepository) AddParticipantPoints(ctx context.Context, participantID int64, points int) error {
	args := m.Called(ctx, participantID, points)
	return args.Error(0)
}

func (m *MockSubmissionRepository) AddLevelPoints(ctx context.Context, key model.LevelPointKey, points int) error {
	args := m.Called(ctx, key, points)
	return args.Error(0)
}

func (m *MockSubmissionRepository) CreateSubmissionNote(ctx context.Context, note *model.SubmissionNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListSubmissionNotes(ctx context.Context, submissionID int64) ([]*model.SubmissionNote, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubmissionNote), args.Error(1)
}

func (m *MockSubmissionRepository) ListRewardPayouts(ctx context.Context, submissionID int64) ([]*model.RewardPayout, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RewardPayout), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) CountDoneSubmissionsInProject(ctx context.Context, participantID, projectID int64) (int, error) {
	args := m.Called(ctx, participantID, projectID)
	return args.Int(0), args.Error(1)
}

func (m *MockReferralRepository) GetProjectReferralCode(ctx context.Context, participantID, projectID int64) (*string, error) {
	args := m.Called(ctx, participantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockReferralRepository) FindSubmissionByReferralCode(ctx context.Context, code string, excludeParticipantID int64) (*model.Submission, error) {
	args := m.Called(ctx, code, excludeParticipantID)
	return submissionOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReferralRepository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockReferralRepository) ListReferrals(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Referral), args.Error(1)
}

type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) GetLeaderboard(ctx context.Context, criteria model.LeaderboardCriteria) ([]*model.LeaderboardRow, int, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.LeaderboardRow), args.Int(1), args.Error(2)
}

type MockLevelRepository struct {
	mock.Mock
	Transactor
}

func (m *MockLevelRepository) GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error) {
	args := m.Called(ctx, participantID)
	return participantOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLevelRepository) CountApprovedActivities(ctx context.Context, participantID int64) (int, error) {
	args := m.Called(ctx, participantID)
	return args.Int(0), args.Error(1)
}

func (m *MockLevelRepository) GetLeaderboardPosition(ctx context.Context, participantID int64) (int, error) {
	args := m.Called(ctx, participantID)
	return args.Int(0), args.Error(1)
}

func (m *MockLevelRepository) LevelUpParticipant(ctx context.Context, participantID int64, fromLevel int) error {
	args := m.Called(ctx, participantID, fromLevel)
	return args.Error(0)
}

type MockEligibilityRepository struct {
	mock.Mock
}

func (m *MockEligibilityRepository) GetTask(ctx context.Context, taskID int64) (*model.Task, error) {
	args := m.Called(ctx, taskID)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockEligibilityRepository) FindEligibleParticipants(ctx context.Context, criteria model.EligibilityCriteria) ([]*model.Participant, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetTask(ctx context.Context, taskID int64) (*model.Task, error) {
	args := m.Called(ctx, taskID)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTaskRepository) CountTaskSubmissions(ctx context.Context, taskID int64) (int, error) {
	args := m.Called(ctx, taskID)
	return args.Int(0), args.Error(1)
}

type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) GetParticipantByTelegramID(ctx context.Context, telegramID int64) (*model.Participant, error) {
	args := m.Called(ctx, telegramID)
	return participantOrNil(args.Get(0)), args.Error(1)
}

func (m *MockParticipantRepository) GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error) {
	args := m.Called(ctx, participantID)
	return participantOrNil(args.Get(0)), args.Error(1)
}

func (m *MockParticipantRepository) ListLevelPoints(ctx context.Context, participantID int64) ([]*model.LevelPoint, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LevelPoint), args.Error(1)
}
