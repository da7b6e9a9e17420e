package service

import (
	"context"
	"errors"
	"fmt"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/reward"
)

var (
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrInvalidTransition    = errors.New("invalid submission transition")
	ErrInvalidRating        = errors.New("rating must not be negative")
	ErrNotSubmissionOwner   = errors.New("submission belongs to another participant")
	ErrCannotLevelUp        = errors.New("participant cannot level up")
	ErrRewardHandlerFailure = errors.New("reward payout failed")
	ErrInvalidTask          = errors.New("invalid task configuration")
)

// TransitionError reports a state change attempted from the wrong status.
// It matches ErrInvalidTransition under errors.Is.
type TransitionError struct {
	Action string
	From   model.SubmissionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("can't %s a submission that is %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LevelUpError carries the first failed level-up precondition.
type LevelUpError struct {
	Reason string
}

func (e *LevelUpError) Error() string {
	return fmt.Sprintf("can't level up: %s", e.Reason)
}

func (e *LevelUpError) Is(target error) bool {
	return target == ErrCannotLevelUp
}

type Service struct {
	*SubmissionService
	*LeaderboardService
	*LevelService
	*EligibilityService
	*ReferralService
	*TaskService
	*ParticipantService
}

func NewService(
	submissionService *SubmissionService,
	leaderboardService *LeaderboardService,
	levelService *LevelService,
	eligibilityService *EligibilityService,
	referralService *ReferralService,
	taskService *TaskService,
	participantService *ParticipantService,
) *Service {
	return &Service{
		SubmissionService:  submissionService,
		LeaderboardService: leaderboardService,
		LevelService:       levelService,
		EligibilityService: eligibilityService,
		ReferralService:    referralService,
		TaskService:        taskService,
		ParticipantService: participantService,
	}
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type SubmissionServiceI interface {
	Report(ctx context.Context, submissionID, participantID int64, report string) error
	TakeOnRevision(ctx context.Context, submissionID, managerID int64) error
	Approve(ctx context.Context, submissionID int64, rating int) error
	Reject(ctx context.Context, submissionID int64) error
	Return(ctx context.Context, submissionID int64, comment string) error
	Notes(ctx context.Context, submissionID int64) ([]*model.SubmissionNote, error)
	Payouts(ctx context.Context, submissionID int64) ([]*model.RewardPayout, error)
}

type SubmissionRepository interface {
	Transactor
	GetSubmission(ctx context.Context, submissionID int64) (*model.Submission, error)
	GetTask(ctx context.Context, taskID int64) (*model.Task, error)
	GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error)
	UpdateSubmissionStatus(ctx context.Context, transition *model.SubmissionTransition) error
	AddParticipantPoints(ctx context.Context, participantID int64, points int) error
	AddLevelPoints(ctx context.Context, key model.LevelPointKey, points int) error
	CreateSubmissionNote(ctx context.Context, note *model.SubmissionNote) error
	ListSubmissionNotes(ctx context.Context, submissionID int64) ([]*model.SubmissionNote, error)
	ListRewardPayouts(ctx context.Context, submissionID int64) ([]*model.RewardPayout, error)
}

type RewardDispatcher interface {
	Grant(ctx context.Context, grant reward.Grant) error
}

type ReferralServiceI interface {
	ListReferrals(ctx context.Context, referrerID int64) ([]*model.Referral, error)
}

type ReferralRepository interface {
	CountDoneSubmissionsInProject(ctx context.Context, participantID, projectID int64) (int, error)
	GetProjectReferralCode(ctx context.Context, participantID, projectID int64) (*string, error)
	FindSubmissionByReferralCode(ctx context.Context, code string, excludeParticipantID int64) (*model.Submission, error)
	CreateReferral(ctx context.Context, referral *model.Referral) error
	ListReferrals(ctx context.Context, referrerID int64) ([]*model.Referral, error)
}

type LeaderboardServiceI interface {
	Rank(ctx context.Context, criteria model.LeaderboardCriteria) (*model.LeaderboardPage, error)
}

type LeaderboardRepository interface {
	GetLeaderboard(ctx context.Context, criteria model.LeaderboardCriteria) ([]*model.LeaderboardRow, int, error)
}

// LeaderboardCache keys pages by a version that Invalidate bumps. Pages are
// read and written under the version observed before the ledger query.
type LeaderboardCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, criteria model.LeaderboardCriteria) (*model.LeaderboardPage, bool, error)
	Set(ctx context.Context, version int64, criteria model.LeaderboardCriteria, page *model.LeaderboardPage) error
	Invalidate(ctx context.Context) error
}

type LevelServiceI interface {
	CheckLevelUp(ctx context.Context, participantID int64) (*model.LevelUpCheck, error)
	CanLevelUp(ctx context.Context, participantID int64) (bool, error)
	LevelUp(ctx context.Context, participantID int64) error
}

type LevelRepository interface {
	Transactor
	GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error)
	CountApprovedActivities(ctx context.Context, participantID int64) (int, error)
	GetLeaderboardPosition(ctx context.Context, participantID int64) (int, error)
	LevelUpParticipant(ctx context.Context, participantID int64, fromLevel int) error
}

type LevelRules interface {
	PointsNeededForLevel(level int) (int, bool)
	MinimumLeaderboardPlace() int
}

type EligibilityServiceI interface {
	EligibleParticipants(ctx context.Context, taskID int64) ([]*model.Participant, error)
	NotifyEligible(ctx context.Context, taskID int64) (int, error)
}

type EligibilityRepository interface {
	GetTask(ctx context.Context, taskID int64) (*model.Task, error)
	FindEligibleParticipants(ctx context.Context, criteria model.EligibilityCriteria) ([]*model.Participant, error)
}

type TaskServiceI interface {
	Editable(ctx context.Context, taskID int64) (bool, error)
}

type TaskRepository interface {
	GetTask(ctx context.Context, taskID int64) (*model.Task, error)
	CountTaskSubmissions(ctx context.Context, taskID int64) (int, error)
}

type ParticipantServiceI interface {
	GetParticipantByTelegramID(ctx context.Context, telegramID int64) (*model.Participant, error)
	LevelPoints(ctx context.Context, participantID int64) ([]*model.LevelPoint, error)
}

type ParticipantRepository interface {
	GetParticipantByTelegramID(ctx context.Context, telegramID int64) (*model.Participant, error)
	GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error)
	ListLevelPoints(ctx context.Context, participantID int64) ([]*model.LevelPoint, error)
}

type Notifier interface {
	Notify(ctx context.Context, event model.Event) error
}
