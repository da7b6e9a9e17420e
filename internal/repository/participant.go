package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type participant struct {
	ID          int64   `db:"id"`
	Email       *string `db:"email"`
	TelegramID  *int64  `db:"telegram_id"`
	Level       int     `db:"level"`
	Points      int     `db:"points"`
	TotalPoints int     `db:"total_points"`
}

var participantColumns = []string{
	"p.id",
	"p.email",
	"p.telegram_id",
	"p.level",
	"p.points",
	"p.total_points",
}

func (p participant) toModel() *model.Participant {
	return &model.Participant{
		ID:          p.ID,
		Email:       p.Email,
		TelegramID:  p.TelegramID,
		Level:       p.Level,
		Points:      p.Points,
		TotalPoints: p.TotalPoints,
	}
}

func (r *Repository) getParticipantWhere(ctx context.Context, where squirrel.Eq) (*model.Participant, error) {
	query, args, err := squirrel.
		Select(participantColumns...).
		From("participants p").
		Where(where).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participant select query: %w", err)
	}

	var p participant
	err = sqlx.GetContext(ctx, r.conn(ctx), &p, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return p.toModel(), nil
}

func (r *Repository) GetParticipant(ctx context.Context, participantID int64) (*model.Participant, error) {
	return r.getParticipantWhere(ctx, squirrel.Eq{"p.id": participantID})
}

func (r *Repository) GetParticipantByTelegramID(ctx context.Context, telegramID int64) (*model.Participant, error) {
	return r.getParticipantWhere(ctx, squirrel.Eq{"p.telegram_id": telegramID})
}

// AddParticipantPoints increments the live balance and the lifetime counter
// in place, so concurrent approvals never lose an increment.
func (r *Repository) AddParticipantPoints(ctx context.Context, participantID int64, points int) error {
	query, args, err := squirrel.
		Update("participants").
		Set("points", squirrel.Expr("points + ?", points)).
		Set("total_points", squirrel.Expr("total_points + ?", points)).
		Where(squirrel.Eq{"id": participantID}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build participant points update query: %w", err)
	}

	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update participant points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// LevelUpParticipant advances the level and resets points only if the
// participant is still at fromLevel.
func (r *Repository) LevelUpParticipant(ctx context.Context, participantID int64, fromLevel int) error {
	query, args, err := squirrel.
		Update("participants").
		Set("level", squirrel.Expr("level + 1")).
		Set("points", 0).
		Where(squirrel.Eq{
			"id":    participantID,
			"level": fromLevel,
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build level up query: %w", err)
	}

	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to level up participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetParticipant(ctx, participantID); err != nil {
			return err
		}
		return ErrLevelConflict
	}

	return nil
}

func (r *Repository) CountApprovedActivities(ctx context.Context, participantID int64) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("activity_memberships").
		Where(squirrel.Eq{
			"participant_id": participantID,
			"status":         string(model.MembershipApproved),
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build approved activities query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count approved activities: %w", err)
	}

	return count, nil
}

// GetProjectReferralCode returns nil when the participant has no membership
// in the project or the membership carries no code.
func (r *Repository) GetProjectReferralCode(ctx context.Context, participantID, projectID int64) (*string, error) {
	query, args, err := squirrel.
		Select("referral_code").
		From("project_memberships").
		Where(squirrel.Eq{
			"participant_id": participantID,
			"project_id":     projectID,
		}).
		Where(squirrel.NotEq{"referral_code": nil}).
		Limit(1).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build referral code query: %w", err)
	}

	var code string
	err = sqlx.GetContext(ctx, r.conn(ctx), &code, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project referral code: %w", err)
	}

	return &code, nil
}
