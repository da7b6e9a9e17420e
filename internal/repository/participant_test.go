package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
	"ambassador_engine/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_LevelUpParticipant(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()
	repotest.Exec(t, db, `INSERT INTO participants (id, level, points, total_points) VALUES (1, 2, 80, 300)`)

	require.NoError(t, repo.LevelUpParticipant(ctx, 1, 2))

	p, err := repo.GetParticipant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 0, p.Points)
	assert.Equal(t, 300, p.TotalPoints)

	assert.ErrorIs(t, repo.LevelUpParticipant(ctx, 1, 2), repository.ErrLevelConflict)
	assert.ErrorIs(t, repo.LevelUpParticipant(ctx, 9, 1), repository.ErrNotFound)
}

func TestRepository_Memberships(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()

	repotest.Exec(t, db, `INSERT INTO participants (id, telegram_id) VALUES (1, 777), (2, NULL)`)
	repotest.Exec(t, db, `INSERT INTO activity_memberships (participant_id, activity_id, status) VALUES
		(1, 1, 'approved'), (1, 2, 'created'), (1, 3, 'approved')`)
	repotest.Exec(t, db, `INSERT INTO project_memberships (participant_id, project_id, status, referral_code) VALUES
		(1, 1, 'accepted', 'JOIN1'), (2, 1, 'accepted', NULL)`)

	count, err := repo.CountApprovedActivities(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	code, err := repo.GetProjectReferralCode(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, "JOIN1", *code)

	code, err = repo.GetProjectReferralCode(ctx, 2, 1)
	require.NoError(t, err)
	assert.Nil(t, code)

	p, err := repo.GetParticipantByTelegramID(ctx, 777)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestRepository_WithinTransaction(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()
	repotest.Exec(t, db, `INSERT INTO participants (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id) VALUES (1)`)

	boom := errors.New("boom")
	err := repo.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.AddParticipantPoints(ctx, 1, 10))
		return repo.WithinTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, repo.AddLevelPoints(ctx, model.LevelPointKey{ParticipantID: 1, Level: 1}, 10))
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	p, err := repo.GetParticipant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalPoints)

	rows, err := repo.ListLevelPoints(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	err = repo.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.CreateReferral(ctx, &model.Referral{
			TaskID:        1,
			ParticipantID: 1,
			ReferralID:    1,
			SubmissionID:  1,
			CreatedAt:     time.Now().UTC(),
		})
	})
	assert.Error(t, err, "missing submission violates the foreign key")
}
