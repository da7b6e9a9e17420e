package repository

import (
	"context"
	"fmt"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type levelPoint struct {
	ID            int64 `db:"id"`
	ParticipantID int64 `db:"participant_id"`
	Level         int   `db:"level"`
	ProjectID     int64 `db:"project_id"`
	ActivityID    int64 `db:"activity_id"`
	Points        int   `db:"points"`
}

// AddLevelPoints creates the ledger row for key on first award and adds to
// it afterwards. The upsert is a single statement, so concurrent awards on
// the same key are summed by the database.
func (r *Repository) AddLevelPoints(ctx context.Context, key model.LevelPointKey, points int) error {
	query, args, err := squirrel.
		Insert("level_points").
		Columns("participant_id", "level", "project_id", "activity_id", "points").
		Values(key.ParticipantID, key.Level, key.ProjectID, key.ActivityID, points).
		Suffix("ON CONFLICT (participant_id, level, project_id, activity_id) " +
			"DO UPDATE SET points = level_points.points + excluded.points").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build level points upsert query: %w", err)
	}

	if _, err := r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert level points: %w", err)
	}

	return nil
}

func (r *Repository) ListLevelPoints(ctx context.Context, participantID int64) ([]*model.LevelPoint, error) {
	query, args, err := squirrel.
		Select("id", "participant_id", "level", "project_id", "activity_id", "points").
		From("level_points").
		Where(squirrel.Eq{"participant_id": participantID}).
		OrderBy("level", "project_id", "activity_id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build level points query: %w", err)
	}

	var rows []levelPoint
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list level points: %w", err)
	}

	out := make([]*model.LevelPoint, len(rows))
	for i, lp := range rows {
		out[i] = &model.LevelPoint{
			LevelPointKey: model.LevelPointKey{
				ParticipantID: lp.ParticipantID,
				Level:         lp.Level,
				ProjectID:     lp.ProjectID,
				ActivityID:    lp.ActivityID,
			},
			ID:     lp.ID,
			Points: lp.Points,
		}
	}

	return out, nil
}
