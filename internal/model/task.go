package model

import (
	"errors"
	"time"
)

var (
	ErrWinnersAndInvites = errors.New("number_of_winners and number_of_invites are mutually exclusive")
	ErrInvalidLevelRange = errors.New("min_level must not exceed max_level")
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusActive   TaskStatus = "active"
	TaskStatusFinished TaskStatus = "finished"
)

type Task struct {
	ID                   int64
	ProjectID            *int64
	ActivityID           *int64
	ManagerID            *int64
	MinLevel             *int
	MaxLevel             *int
	StartedAt            *time.Time
	EndedAt              *time.Time
	NumberOfWinners      *int
	NumberOfInvites      *int
	NumberOfParticipants *int
	Rewards              []Reward
	Conditions           []Condition
	AssigneeIDs          []int64
}

// Status is derived from the task dates, not stored.
func (t *Task) Status(now time.Time) TaskStatus {
	if t.StartedAt != nil && now.Before(*t.StartedAt) {
		return TaskStatusPending
	}
	if t.EndedAt != nil && now.After(*t.EndedAt) {
		return TaskStatusFinished
	}
	return TaskStatusActive
}

func (t *Task) Validate() error {
	if t.NumberOfWinners != nil && t.NumberOfInvites != nil {
		return ErrWinnersAndInvites
	}
	if t.MinLevel != nil && t.MaxLevel != nil && *t.MinLevel > *t.MaxLevel {
		return ErrInvalidLevelRange
	}
	return nil
}

// Condition is passed through to external verifiers untouched.
type Condition struct {
	Type     string
	Value    string
	Operator string
}
