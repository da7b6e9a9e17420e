package model

import "time"

type RewardType string

const (
	RewardTypeCoins       RewardType = "coins"
	RewardTypeDiscordRole RewardType = "discord_role"
)

type Reward struct {
	ID     int64
	TaskID int64
	Type   RewardType
	Value  string
}

type RewardPayoutStatus string

const (
	RewardPayoutPending RewardPayoutStatus = "pending"
)

type RewardPayout struct {
	ParticipantID int64
	TaskID        int64
	SubmissionID  int64
	Type          RewardType
	Value         string
	Status        RewardPayoutStatus
	CreatedAt     time.Time
}
