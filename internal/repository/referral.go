package repository

import (
	"context"
	"fmt"
	"time"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type referral struct {
	ID            int64     `db:"id"`
	TaskID        int64     `db:"task_id"`
	ParticipantID int64     `db:"participant_id"`
	ReferralID    int64     `db:"referral_id"`
	SubmissionID  int64     `db:"submission_id"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *Repository) CreateReferral(ctx context.Context, ref *model.Referral) error {
	query, args, err := squirrel.
		Insert("referrals").
		SetMap(map[string]interface{}{
			"task_id":        ref.TaskID,
			"participant_id": ref.ParticipantID,
			"referral_id":    ref.ReferralID,
			"submission_id":  ref.SubmissionID,
			"created_at":     ref.CreatedAt,
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral insert query: %w", err)
	}

	if _, err := r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert referral: %w", err)
	}

	return nil
}

func (r *Repository) ListReferrals(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	query, args, err := squirrel.
		Select("id", "task_id", "participant_id", "referral_id", "submission_id", "created_at").
		From("referrals").
		Where(squirrel.Eq{"participant_id": referrerID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build referrals query: %w", err)
	}

	var dbReferrals []referral
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &dbReferrals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}

	refs := make([]*model.Referral, len(dbReferrals))
	for i, ref := range dbReferrals {
		refs[i] = &model.Referral{
			ID:            ref.ID,
			TaskID:        ref.TaskID,
			ParticipantID: ref.ParticipantID,
			ReferralID:    ref.ReferralID,
			SubmissionID:  ref.SubmissionID,
			CreatedAt:     ref.CreatedAt,
		}
	}

	return refs, nil
}
