package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSubmissionTakenOnRevision EventType = "submission.taken_on_revision"
	EventSubmissionReported        EventType = "submission.reported"
	EventSubmissionApproved        EventType = "submission.approved"
	EventSubmissionRejected        EventType = "submission.rejected"
	EventSubmissionReturned        EventType = "submission.returned"
	EventReferralCreated           EventType = "referral.created"
	EventParticipantLeveledUp      EventType = "participant.leveled_up"
	EventTaskPublished             EventType = "task.published"
)

type Event struct {
	ID            uuid.UUID      `json:"id"`
	Type          EventType      `json:"type"`
	ParticipantID int64          `json:"participant_id"`
	TelegramID    *int64         `json:"-"`
	Payload       map[string]any `json:"payload,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

func NewEvent(eventType EventType, participantID int64, payload map[string]any) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		ParticipantID: participantID,
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
	}
}
