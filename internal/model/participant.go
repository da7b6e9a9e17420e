package model

const BaselineLevel = 1

type Participant struct {
	ID          int64
	Email       *string
	TelegramID  *int64
	Level       int
	Points      int
	TotalPoints int
}

type MembershipStatus string

const (
	MembershipCreated  MembershipStatus = "created"
	MembershipApproved MembershipStatus = "approved"
	MembershipDeclined MembershipStatus = "declined"
	MembershipAccepted MembershipStatus = "accepted"
)

// LevelRules is the level -> points threshold table plus the leaderboard
// place that allows levelling up regardless of points.
type LevelRules struct {
	PointsNeeded        map[int]int
	MinLeaderboardPlace int
}

func (r LevelRules) PointsNeededForLevel(level int) (int, bool) {
	points, ok := r.PointsNeeded[level]
	return points, ok
}

func (r LevelRules) MinimumLeaderboardPlace() int {
	return r.MinLeaderboardPlace
}

type LevelUpCheck struct {
	ParticipantID       int64
	Level               int
	Points              int
	PointsNeeded        *int
	LeaderboardPosition int
	ApprovedActivities  int
	Eligible            bool
	Reason              string
}
