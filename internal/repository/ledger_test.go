package repository_test

import (
	"context"
	"sync"
	"testing"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
	"ambassador_engine/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_AddLevelPoints(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()
	repotest.Exec(t, db, `INSERT INTO participants (id, level) VALUES (1, 1)`)

	key := model.LevelPointKey{ParticipantID: 1, Level: 1, ProjectID: 2, ActivityID: 3}
	other := model.LevelPointKey{ParticipantID: 1, Level: 1}

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(points int) {
			defer wg.Done()
			assert.NoError(t, repo.AddLevelPoints(ctx, key, points))
		}(i)
	}
	wg.Wait()
	require.NoError(t, repo.AddLevelPoints(ctx, other, 4))

	rows, err := repo.ListLevelPoints(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, other, rows[0].LevelPointKey)
	assert.Equal(t, 4, rows[0].Points)
	assert.Equal(t, key, rows[1].LevelPointKey)
	assert.Equal(t, 55, rows[1].Points)
}

func TestRepository_AddParticipantPoints(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()
	repotest.Exec(t, db, `INSERT INTO participants (id, level, points, total_points) VALUES (1, 1, 5, 50)`)

	require.NoError(t, repo.AddParticipantPoints(ctx, 1, 7))

	p, err := repo.GetParticipant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Points)
	assert.Equal(t, 57, p.TotalPoints)

	assert.ErrorIs(t, repo.AddParticipantPoints(ctx, 2, 7), repository.ErrNotFound)
}
