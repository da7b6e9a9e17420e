package repository

import (
	"context"
	"fmt"
	"time"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type rewardPayout struct {
	ParticipantID int64     `db:"participant_id"`
	TaskID        int64     `db:"task_id"`
	SubmissionID  int64     `db:"submission_id"`
	Type          string    `db:"type"`
	Value         string    `db:"value"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *Repository) CreateRewardPayout(ctx context.Context, payout *model.RewardPayout) error {
	query, args, err := squirrel.
		Insert("reward_payouts").
		SetMap(map[string]interface{}{
			"participant_id": payout.ParticipantID,
			"task_id":        payout.TaskID,
			"submission_id":  payout.SubmissionID,
			"type":           string(payout.Type),
			"value":          payout.Value,
			"status":         string(payout.Status),
			"created_at":     payout.CreatedAt,
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reward payout insert query: %w", err)
	}

	if _, err := r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert reward payout: %w", err)
	}

	return nil
}

func (r *Repository) ListRewardPayouts(ctx context.Context, submissionID int64) ([]*model.RewardPayout, error) {
	query, args, err := squirrel.
		Select("participant_id", "task_id", "submission_id", "type", "value", "status", "created_at").
		From("reward_payouts").
		Where(squirrel.Eq{"submission_id": submissionID}).
		OrderBy("id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reward payouts query: %w", err)
	}

	var rows []rewardPayout
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reward payouts: %w", err)
	}

	payouts := make([]*model.RewardPayout, len(rows))
	for i, p := range rows {
		payouts[i] = &model.RewardPayout{
			ParticipantID: p.ParticipantID,
			TaskID:        p.TaskID,
			SubmissionID:  p.SubmissionID,
			Type:          model.RewardType(p.Type),
			Value:         p.Value,
			Status:        model.RewardPayoutStatus(p.Status),
			CreatedAt:     p.CreatedAt,
		}
	}

	return payouts, nil
}
