package repository

import (
	"context"
	"fmt"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// FindEligibleParticipants returns the participants a task can target.
// An explicit assignee list replaces the activity and project checks; the
// level range still applies to it.
func (r *Repository) FindEligibleParticipants(ctx context.Context, c model.EligibilityCriteria) ([]*model.Participant, error) {
	q := squirrel.
		Select(participantColumns...).
		From("participants p").
		Where(squirrel.NotEq{"p.email": nil}).
		Where(squirrel.NotEq{"p.email": ""})

	if len(c.AssigneeIDs) > 0 {
		q = q.Where(squirrel.Eq{"p.id": c.AssigneeIDs})
	}

	if c.MinLevel != nil {
		q = q.Where(squirrel.GtOrEq{"p.level": *c.MinLevel})
		if c.MaxLevel != nil {
			q = q.Where(squirrel.LtOrEq{"p.level": *c.MaxLevel})
		}
	}

	if len(c.AssigneeIDs) == 0 {
		if c.ActivityID != nil {
			q = q.Where(squirrel.Expr(
				"EXISTS (SELECT 1 FROM activity_memberships am WHERE am.participant_id = p.id AND am.activity_id = ? AND am.status = ?)",
				*c.ActivityID, string(model.MembershipApproved),
			))
		}
		if c.ProjectID != nil {
			q = q.Where(squirrel.Expr(
				"EXISTS (SELECT 1 FROM project_memberships pm WHERE pm.participant_id = p.id AND pm.project_id = ? AND pm.status = ?)",
				*c.ProjectID, string(model.MembershipAccepted),
			))
		}
	}

	query, args, err := q.
		OrderBy("p.id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build eligible participants query: %w", err)
	}

	var dbParticipants []participant
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &dbParticipants, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find eligible participants: %w", err)
	}

	participants := make([]*model.Participant, len(dbParticipants))
	for i, p := range dbParticipants {
		participants[i] = p.toModel()
	}

	return participants, nil
}
