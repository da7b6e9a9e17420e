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

type leaderboardRow struct {
	ParticipantID int64 `db:"id"`
	Level         int   `db:"level"`
	TasksCount    int   `db:"tasks_count"`
	TasksPoints   int   `db:"tasks_points"`
	TotalPoints   int   `db:"total_points"`
}

// leaderboardFilters selects who is ranked: members of the project for a
// project board, otherwise everyone with an approved activity.
func leaderboardFilters(c model.LeaderboardCriteria) squirrel.And {
	filters := squirrel.And{}
	if c.ProjectID != nil {
		filters = append(filters, squirrel.Expr(
			"EXISTS (SELECT 1 FROM project_memberships pm WHERE pm.participant_id = p.id AND pm.project_id = ?)",
			*c.ProjectID,
		))
	} else {
		filters = append(filters, squirrel.Expr(
			"EXISTS (SELECT 1 FROM activity_memberships am WHERE am.participant_id = p.id AND am.status = ?)",
			string(model.MembershipApproved),
		))
	}
	if len(c.Levels) > 0 {
		filters = append(filters, squirrel.Eq{"p.level": c.Levels})
	}
	return filters
}

func leaderboardQuery(c model.LeaderboardCriteria) squirrel.SelectBuilder {
	tasksCount := squirrel.
		Select("COUNT(*)").
		From("submissions s").
		Join("tasks t ON t.id = s.task_id").
		Where("s.participant_id = p.id").
		Where(squirrel.Eq{"s.status": string(model.SubmissionDone)})

	// points earned at the participant's present level only
	tasksPoints := squirrel.
		Select("COALESCE(SUM(lp.points), 0)").
		From("level_points lp").
		Where("lp.participant_id = p.id").
		Where("lp.level = p.level")

	totalPoints := squirrel.
		Select("COALESCE(SUM(lp.points), 0)").
		From("level_points lp").
		Where("lp.participant_id = p.id")

	if c.ActivityID != nil {
		tasksCount = tasksCount.Where(squirrel.Eq{"t.activity_id": *c.ActivityID})
		tasksPoints = tasksPoints.Where(squirrel.Eq{"lp.activity_id": *c.ActivityID})
		totalPoints = totalPoints.Where(squirrel.Eq{"lp.activity_id": *c.ActivityID})
	}
	if c.ProjectID != nil {
		tasksCount = tasksCount.Where(squirrel.Eq{"t.project_id": *c.ProjectID})
		totalPoints = totalPoints.Where(squirrel.Eq{"lp.project_id": *c.ProjectID})
	}

	return squirrel.
		Select("p.id", "p.level").
		Column(squirrel.Alias(tasksCount, "tasks_count")).
		Column(squirrel.Alias(tasksPoints, "tasks_points")).
		Column(squirrel.Alias(totalPoints, "total_points")).
		From("participants p").
		Where(leaderboardFilters(c))
}

// GetLeaderboard returns one page of ranked rows and the number of ranked
// participants. Ascending order is the exact reverse of descending order,
// ties included.
func (r *Repository) GetLeaderboard(ctx context.Context, c model.LeaderboardCriteria) ([]*model.LeaderboardRow, int, error) {
	countQuery, countArgs, err := squirrel.
		Select("COUNT(*)").
		From("participants p").
		Where(leaderboardFilters(c)).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build leaderboard count query: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaderboard rows: %w", err)
	}

	order := []string{"total_points DESC", "id ASC"}
	if c.Sort == model.SortAsc {
		order = []string{"total_points ASC", "id DESC"}
	}

	query, args, err := leaderboardQuery(c).
		OrderBy(order...).
		Limit(uint64(c.PerPage)).
		Offset(uint64(c.PerPage * (c.Page - 1))).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build leaderboard query: %w", err)
	}

	var dbRows []leaderboardRow
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &dbRows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	rows := make([]*model.LeaderboardRow, len(dbRows))
	for i, row := range dbRows {
		rows[i] = &model.LeaderboardRow{
			ParticipantID: row.ParticipantID,
			Level:         row.Level,
			TasksCount:    row.TasksCount,
			TasksPoints:   row.TasksPoints,
			TotalPoints:   row.TotalPoints,
		}
	}

	return rows, total, nil
}

// GetLeaderboardPosition returns the participant's place on the unfiltered
// descending leaderboard, or 0 when the participant is not ranked at all.
func (r *Repository) GetLeaderboardPosition(ctx context.Context, participantID int64) (int, error) {
	board := leaderboardQuery(model.LeaderboardCriteria{})

	totalQuery, totalArgs, err := squirrel.
		Select("board.total_points").
		FromSelect(board, "board").
		Where(squirrel.Eq{"board.id": participantID}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build participant total query: %w", err)
	}

	var total int
	err = sqlx.GetContext(ctx, r.conn(ctx), &total, totalQuery, totalArgs...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get participant total points: %w", err)
	}

	aheadQuery, aheadArgs, err := squirrel.
		Select("COUNT(*)").
		FromSelect(board, "board").
		Where(squirrel.Or{
			squirrel.Gt{"board.total_points": total},
			squirrel.And{
				squirrel.Eq{"board.total_points": total},
				squirrel.Lt{"board.id": participantID},
			},
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build leaderboard position query: %w", err)
	}

	var ahead int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &ahead, aheadQuery, aheadArgs...); err != nil {
		return 0, fmt.Errorf("failed to get leaderboard position: %w", err)
	}

	return ahead + 1, nil
}
