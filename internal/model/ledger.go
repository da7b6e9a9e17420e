package model

// LevelPointKey identifies one ledger row. Zero ProjectID/ActivityID means
// the task had no project or activity.
type LevelPointKey struct {
	ParticipantID int64
	Level         int
	ProjectID     int64
	ActivityID    int64
}

type LevelPoint struct {
	LevelPointKey
	ID     int64
	Points int
}

func NewLevelPointKey(participant *Participant, task *Task) LevelPointKey {
	key := LevelPointKey{
		ParticipantID: participant.ID,
		Level:         participant.Level,
	}
	if task.ProjectID != nil {
		key.ProjectID = *task.ProjectID
	}
	if task.ActivityID != nil {
		key.ActivityID = *task.ActivityID
	}
	return key
}
