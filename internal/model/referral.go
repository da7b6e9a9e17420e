package model

import "time"

type Referral struct {
	ID            int64
	TaskID        int64
	ParticipantID int64
	ReferralID    int64
	SubmissionID  int64
	CreatedAt     time.Time
}
