package model

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type LeaderboardCriteria struct {
	ActivityID *int64
	ProjectID  *int64
	Levels     []int
	Sort       SortDirection
	Page       int
	PerPage    int
}

type LeaderboardRow struct {
	ParticipantID int64
	Level         int
	TasksCount    int
	TasksPoints   int
	TotalPoints   int
	Position      int
}

type LeaderboardPage struct {
	Rows    []*LeaderboardRow
	Total   int
	Page    int
	PerPage int
}

type EligibilityCriteria struct {
	AssigneeIDs []int64
	MinLevel    *int
	MaxLevel    *int
	ActivityID  *int64
	ProjectID   *int64
}

func NewEligibilityCriteria(task *Task) EligibilityCriteria {
	return EligibilityCriteria{
		AssigneeIDs: task.AssigneeIDs,
		MinLevel:    task.MinLevel,
		MaxLevel:    task.MaxLevel,
		ActivityID:  task.ActivityID,
		ProjectID:   task.ProjectID,
	}
}
