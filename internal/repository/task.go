package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type task struct {
	ID                   int64      `db:"id"`
	ProjectID            *int64     `db:"project_id"`
	ActivityID           *int64     `db:"activity_id"`
	ManagerID            *int64     `db:"manager_id"`
	MinLevel             *int       `db:"min_level"`
	MaxLevel             *int       `db:"max_level"`
	StartedAt            *time.Time `db:"started_at"`
	EndedAt              *time.Time `db:"ended_at"`
	NumberOfWinners      *int       `db:"number_of_winners"`
	NumberOfInvites      *int       `db:"number_of_invites"`
	NumberOfParticipants *int       `db:"number_of_participants"`
}

type taskReward struct {
	ID     int64  `db:"id"`
	TaskID int64  `db:"task_id"`
	Type   string `db:"type"`
	Value  string `db:"value"`
}

type taskCondition struct {
	Type     string `db:"type"`
	Value    string `db:"value"`
	Operator string `db:"operator"`
}

func (r *Repository) GetTask(ctx context.Context, taskID int64) (*model.Task, error) {
	q := r.conn(ctx)

	query, args, err := squirrel.
		Select(
			"id",
			"project_id",
			"activity_id",
			"manager_id",
			"min_level",
			"max_level",
			"started_at",
			"ended_at",
			"number_of_winners",
			"number_of_invites",
			"number_of_participants",
		).
		From("tasks").
		Where(squirrel.Eq{"id": taskID}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task select query: %w", err)
	}

	var t task
	err = sqlx.GetContext(ctx, q, &t, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	rewards, err := r.getTaskRewards(ctx, q, taskID)
	if err != nil {
		return nil, err
	}

	conditions, err := r.getTaskConditions(ctx, q, taskID)
	if err != nil {
		return nil, err
	}

	assignees, err := r.getTaskAssignees(ctx, q, taskID)
	if err != nil {
		return nil, err
	}

	return &model.Task{
		ID:                   t.ID,
		ProjectID:            t.ProjectID,
		ActivityID:           t.ActivityID,
		ManagerID:            t.ManagerID,
		MinLevel:             t.MinLevel,
		MaxLevel:             t.MaxLevel,
		StartedAt:            t.StartedAt,
		EndedAt:              t.EndedAt,
		NumberOfWinners:      t.NumberOfWinners,
		NumberOfInvites:      t.NumberOfInvites,
		NumberOfParticipants: t.NumberOfParticipants,
		Rewards:              rewards,
		Conditions:           conditions,
		AssigneeIDs:          assignees,
	}, nil
}

// Rewards are returned in insertion order; handlers run in that order.
func (r *Repository) getTaskRewards(ctx context.Context, q sqlx.QueryerContext, taskID int64) ([]model.Reward, error) {
	query, args, err := squirrel.
		Select("id", "task_id", "type", "value").
		From("task_rewards").
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task rewards query: %w", err)
	}

	var dbRewards []taskReward
	if err := sqlx.SelectContext(ctx, q, &dbRewards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get task rewards: %w", err)
	}

	rewards := make([]model.Reward, len(dbRewards))
	for i, rw := range dbRewards {
		rewards[i] = model.Reward{
			ID:     rw.ID,
			TaskID: rw.TaskID,
			Type:   model.RewardType(rw.Type),
			Value:  rw.Value,
		}
	}

	return rewards, nil
}

func (r *Repository) getTaskConditions(ctx context.Context, q sqlx.QueryerContext, taskID int64) ([]model.Condition, error) {
	query, args, err := squirrel.
		Select("type", "value", "operator").
		From("task_conditions").
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task conditions query: %w", err)
	}

	var dbConditions []taskCondition
	if err := sqlx.SelectContext(ctx, q, &dbConditions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get task conditions: %w", err)
	}

	conditions := make([]model.Condition, len(dbConditions))
	for i, c := range dbConditions {
		conditions[i] = model.Condition{
			Type:     c.Type,
			Value:    c.Value,
			Operator: c.Operator,
		}
	}

	return conditions, nil
}

func (r *Repository) getTaskAssignees(ctx context.Context, q sqlx.QueryerContext, taskID int64) ([]int64, error) {
	query, args, err := squirrel.
		Select("participant_id").
		From("task_assignees").
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("participant_id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task assignees query: %w", err)
	}

	var ids []int64
	if err := sqlx.SelectContext(ctx, q, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get task assignees: %w", err)
	}

	return ids, nil
}

func (r *Repository) CountTaskSubmissions(ctx context.Context, taskID int64) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("submissions").
		Where(squirrel.Eq{"task_id": taskID}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build submissions count query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count task submissions: %w", err)
	}

	return count, nil
}
