package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ambassador_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type submission struct {
	ID            int64      `db:"id"`
	TaskID        int64      `db:"task_id"`
	ParticipantID int64      `db:"participant_id"`
	Status        string     `db:"status"`
	Rating        *int       `db:"rating"`
	Report        *string    `db:"report"`
	ManagerID     *int64     `db:"manager_id"`
	ReportedAt    *time.Time `db:"reported_at"`
	RevisedAt     *time.Time `db:"revised_at"`
	CompletedAt   *time.Time `db:"completed_at"`
	ReferralCode  *string    `db:"referral_code"`
}

var submissionColumns = []string{
	"id",
	"task_id",
	"participant_id",
	"status",
	"rating",
	"report",
	"manager_id",
	"reported_at",
	"revised_at",
	"completed_at",
	"referral_code",
}

func (s submission) toModel() *model.Submission {
	return &model.Submission{
		ID:            s.ID,
		TaskID:        s.TaskID,
		ParticipantID: s.ParticipantID,
		Status:        model.SubmissionStatus(s.Status),
		Rating:        s.Rating,
		Report:        s.Report,
		ManagerID:     s.ManagerID,
		ReportedAt:    s.ReportedAt,
		RevisedAt:     s.RevisedAt,
		CompletedAt:   s.CompletedAt,
		ReferralCode:  s.ReferralCode,
	}
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID int64) (*model.Submission, error) {
	query, args, err := squirrel.
		Select(submissionColumns...).
		From("submissions").
		Where(squirrel.Eq{"id": submissionID}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build submission select query: %w", err)
	}

	var s submission
	err = sqlx.GetContext(ctx, r.conn(ctx), &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return s.toModel(), nil
}

// UpdateSubmissionStatus moves a submission from t.From to t.To. The status
// check and the write are one UPDATE statement, so of two concurrent callers
// only one sees an affected row; the other gets ErrStatusConflict.
func (r *Repository) UpdateSubmissionStatus(ctx context.Context, t *model.SubmissionTransition) error {
	set := map[string]interface{}{
		"status": string(t.To),
	}
	if t.Rating != nil {
		set["rating"] = *t.Rating
	}
	if t.Report != nil {
		set["report"] = *t.Report
	}
	if t.ManagerID != nil {
		set["manager_id"] = *t.ManagerID
	}
	if t.ReportedAt != nil {
		set["reported_at"] = *t.ReportedAt
	}
	if t.RevisedAt != nil {
		set["revised_at"] = *t.RevisedAt
	}
	if t.CompletedAt != nil {
		set["completed_at"] = *t.CompletedAt
	}

	query, args, err := squirrel.
		Update("submissions").
		SetMap(set).
		Where(squirrel.Eq{
			"id":     t.SubmissionID,
			"status": string(t.From),
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build submission update query: %w", err)
	}

	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		if _, err := r.GetSubmission(ctx, t.SubmissionID); err != nil {
			return err
		}
		return ErrStatusConflict
	}

	return nil
}

func (r *Repository) CountDoneSubmissionsInProject(ctx context.Context, participantID, projectID int64) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("submissions s").
		Join("tasks t ON t.id = s.task_id").
		Where(squirrel.Eq{
			"s.participant_id": participantID,
			"s.status":         string(model.SubmissionDone),
			"t.project_id":     projectID,
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build done submissions count query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count done submissions: %w", err)
	}

	return count, nil
}

// FindSubmissionByReferralCode returns the earliest submission carrying code
// that does not belong to excludeParticipantID.
func (r *Repository) FindSubmissionByReferralCode(ctx context.Context, code string, excludeParticipantID int64) (*model.Submission, error) {
	query, args, err := squirrel.
		Select(submissionColumns...).
		From("submissions").
		Where(squirrel.Eq{"referral_code": code}).
		Where(squirrel.NotEq{"participant_id": excludeParticipantID}).
		OrderBy("id").
		Limit(1).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build referral code query: %w", err)
	}

	var s submission
	err = sqlx.GetContext(ctx, r.conn(ctx), &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find submission by referral code: %w", err)
	}

	return s.toModel(), nil
}

func (r *Repository) CreateSubmissionNote(ctx context.Context, note *model.SubmissionNote) error {
	query, args, err := squirrel.
		Insert("submission_notes").
		SetMap(map[string]interface{}{
			"id":             note.ID.String(),
			"submission_id":  note.SubmissionID,
			"participant_id": note.ParticipantID,
			"body":           note.Body,
			"created_at":     note.CreatedAt,
		}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build submission note insert query: %w", err)
	}

	if _, err := r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert submission note: %w", err)
	}

	return nil
}

type submissionNote struct {
	ID            string    `db:"id"`
	SubmissionID  int64     `db:"submission_id"`
	ParticipantID int64     `db:"participant_id"`
	Body          string    `db:"body"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *Repository) ListSubmissionNotes(ctx context.Context, submissionID int64) ([]*model.SubmissionNote, error) {
	query, args, err := squirrel.
		Select("id", "submission_id", "participant_id", "body", "created_at").
		From("submission_notes").
		Where(squirrel.Eq{"submission_id": submissionID}).
		OrderBy("created_at").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build submission notes query: %w", err)
	}

	var dbNotes []submissionNote
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &dbNotes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list submission notes: %w", err)
	}

	notes := make([]*model.SubmissionNote, 0, len(dbNotes))
	for _, n := range dbNotes {
		id, err := uuid.Parse(n.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid submission note id %q: %w", n.ID, err)
		}
		notes = append(notes, &model.SubmissionNote{
			ID:            id,
			SubmissionID:  n.SubmissionID,
			ParticipantID: n.ParticipantID,
			Body:          n.Body,
			CreatedAt:     n.CreatedAt,
		})
	}

	return notes, nil
}
