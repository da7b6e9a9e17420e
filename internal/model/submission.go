package model

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionInProgress       SubmissionStatus = "in_progress"
	SubmissionWaitingForReview SubmissionStatus = "waiting_for_review"
	SubmissionOnRevision       SubmissionStatus = "on_revision"
	SubmissionReturned         SubmissionStatus = "returned"
	SubmissionRejected         SubmissionStatus = "rejected"
	SubmissionDone             SubmissionStatus = "done"
)

// IsTerminal reports whether no transition leaves s. Returned submissions
// are closed until a resubmission flow exists.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case SubmissionDone, SubmissionRejected, SubmissionReturned:
		return true
	}
	return false
}

type Submission struct {
	ID            int64
	TaskID        int64
	ParticipantID int64
	Status        SubmissionStatus
	Rating        *int
	Report        *string
	ManagerID     *int64
	ReportedAt    *time.Time
	RevisedAt     *time.Time
	CompletedAt   *time.Time
	ReferralCode  *string
}

// SubmissionTransition is a compare-and-set on the submission status.
// Only non-nil fields are written alongside the new status.
type SubmissionTransition struct {
	SubmissionID int64
	From         SubmissionStatus
	To           SubmissionStatus
	Rating       *int
	Report       *string
	ManagerID    *int64
	ReportedAt   *time.Time
	RevisedAt    *time.Time
	CompletedAt  *time.Time
}

type SubmissionNote struct {
	ID            uuid.UUID
	SubmissionID  int64
	ParticipantID int64
	Body          string
	CreatedAt     time.Time
}
