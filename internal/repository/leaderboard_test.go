package repository_test

import (
	"context"
	"testing"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository/repotest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// seedBoard builds four ranked participants and one without an approved
// activity:
//
//	p3 50 points, p1 30, p2 30, p4 0; p5 is never ranked.
func seedBoard(t *testing.T, db *sqlx.DB) {
	repotest.Exec(t, db, `INSERT INTO participants (id, email, level) VALUES
		(1, 'a@x.io', 2), (2, 'b@x.io', 1), (3, 'c@x.io', 1), (4, 'd@x.io', 1), (5, 'e@x.io', 1)`)
	repotest.Exec(t, db, `INSERT INTO activity_memberships (participant_id, activity_id, status) VALUES
		(1, 7, 'approved'), (2, 8, 'approved'), (3, 7, 'approved'), (4, 7, 'approved'), (5, 7, 'created')`)
	repotest.Exec(t, db, `INSERT INTO project_memberships (participant_id, project_id, status) VALUES
		(1, 1, 'accepted'), (2, 1, 'created')`)
	repotest.Exec(t, db, `INSERT INTO level_points (participant_id, level, project_id, activity_id, points) VALUES
		(1, 1, 1, 7, 10), (1, 2, 1, 7, 20), (2, 1, 0, 8, 30), (3, 1, 2, 7, 50), (5, 1, 0, 7, 99)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id, project_id, activity_id) VALUES (1, 1, 7), (2, 2, 7)`)
	repotest.Exec(t, db, `INSERT INTO submissions (id, task_id, participant_id, status, rating) VALUES
		(1, 1, 1, 'done', 10), (2, 1, 1, 'done', 20), (3, 2, 3, 'done', 50), (4, 1, 2, 'rejected', NULL)`)
}

func ids(rows []*model.LeaderboardRow) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ParticipantID
	}
	return out
}

func TestRepository_GetLeaderboard(t *testing.T) {
	repo, db := repotest.New(t)
	seedBoard(t, db)
	ctx := context.Background()

	tests := []struct {
		name          string
		criteria      model.LeaderboardCriteria
		expectedIDs   []int64
		expectedTotal int
	}{
		{
			name:          "Global descending breaks ties by id",
			criteria:      model.LeaderboardCriteria{Sort: model.SortDesc, Page: 1, PerPage: 10},
			expectedIDs:   []int64{3, 1, 2, 4},
			expectedTotal: 4,
		},
		{
			name:          "Global ascending is the exact reverse",
			criteria:      model.LeaderboardCriteria{Sort: model.SortAsc, Page: 1, PerPage: 10},
			expectedIDs:   []int64{4, 2, 1, 3},
			expectedTotal: 4,
		},
		{
			name:          "Second page",
			criteria:      model.LeaderboardCriteria{Sort: model.SortDesc, Page: 2, PerPage: 3},
			expectedIDs:   []int64{4},
			expectedTotal: 4,
		},
		{
			name:          "Activity board",
			criteria:      model.LeaderboardCriteria{ActivityID: int64Ptr(8), Sort: model.SortDesc, Page: 1, PerPage: 10},
			expectedIDs:   []int64{2, 1, 3, 4},
			expectedTotal: 4,
		},
		{
			name:          "Project board counts any membership",
			criteria:      model.LeaderboardCriteria{ProjectID: int64Ptr(1), Sort: model.SortDesc, Page: 1, PerPage: 10},
			expectedIDs:   []int64{1, 2},
			expectedTotal: 2,
		},
		{
			name:          "Level filter",
			criteria:      model.LeaderboardCriteria{Levels: []int{2}, Sort: model.SortDesc, Page: 1, PerPage: 10},
			expectedIDs:   []int64{1},
			expectedTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := repo.GetLeaderboard(ctx, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, total)
			assert.Equal(t, tt.expectedIDs, ids(rows))
		})
	}
}

func TestRepository_GetLeaderboardAggregates(t *testing.T) {
	repo, db := repotest.New(t)
	seedBoard(t, db)

	rows, _, err := repo.GetLeaderboard(context.Background(), model.LeaderboardCriteria{
		ActivityID: int64Ptr(7),
		Sort:       model.SortDesc,
		Page:       1,
		PerPage:    10,
	})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1, 2, 4}, ids(rows))

	p1 := rows[1]
	assert.Equal(t, 2, p1.Level)
	assert.Equal(t, 2, p1.TasksCount)
	assert.Equal(t, 20, p1.TasksPoints, "only points earned at the current level")
	assert.Equal(t, 30, p1.TotalPoints)

	p2 := rows[2]
	assert.Equal(t, 0, p2.TasksCount, "rejected submissions are not counted")
	assert.Equal(t, 0, p2.TotalPoints)
}

func TestRepository_GetLeaderboardPosition(t *testing.T) {
	repo, db := repotest.New(t)
	seedBoard(t, db)
	ctx := context.Background()

	for id, expected := range map[int64]int{3: 1, 1: 2, 2: 3, 4: 4, 5: 0, 42: 0} {
		position, err := repo.GetLeaderboardPosition(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, expected, position, "participant %d", id)
	}
}
