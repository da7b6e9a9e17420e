package repository_test

import (
	"context"
	"testing"
	"time"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
	"ambassador_engine/internal/repository/repotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_UpdateSubmissionStatus(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()

	repotest.Exec(t, db, `INSERT INTO participants (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO submissions (id, task_id, participant_id, status) VALUES (1, 1, 1, 'on_revision')`)

	completed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rating := 9
	done := &model.SubmissionTransition{
		SubmissionID: 1,
		From:         model.SubmissionOnRevision,
		To:           model.SubmissionDone,
		Rating:       &rating,
		CompletedAt:  &completed,
	}

	require.NoError(t, repo.UpdateSubmissionStatus(ctx, done))

	sub, err := repo.GetSubmission(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionDone, sub.Status)
	require.NotNil(t, sub.Rating)
	assert.Equal(t, 9, *sub.Rating)
	require.NotNil(t, sub.CompletedAt)
	assert.True(t, completed.Equal(*sub.CompletedAt))

	assert.ErrorIs(t, repo.UpdateSubmissionStatus(ctx, done), repository.ErrStatusConflict)

	done.SubmissionID = 2
	assert.ErrorIs(t, repo.UpdateSubmissionStatus(ctx, done), repository.ErrNotFound)
}

func TestRepository_FindSubmissionByReferralCode(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()

	repotest.Exec(t, db, `INSERT INTO participants (id) VALUES (1), (2), (3)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO submissions (id, task_id, participant_id, status, referral_code) VALUES
		(1, 1, 3, 'in_progress', 'SELF'),
		(2, 1, 1, 'done', 'CODE'),
		(3, 1, 2, 'done', 'CODE')`)

	sub, err := repo.FindSubmissionByReferralCode(ctx, "CODE", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sub.ID)

	sub, err = repo.FindSubmissionByReferralCode(ctx, "CODE", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sub.ID)

	_, err = repo.FindSubmissionByReferralCode(ctx, "SELF", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_CountDoneSubmissionsInProject(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()

	repotest.Exec(t, db, `INSERT INTO participants (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id, project_id) VALUES (1, 1), (2, 1), (3, 2)`)
	repotest.Exec(t, db, `INSERT INTO submissions (id, task_id, participant_id, status, rating) VALUES
		(1, 1, 1, 'done', 1), (2, 2, 1, 'rejected', NULL), (3, 3, 1, 'done', 1)`)

	count, err := repo.CountDoneSubmissionsInProject(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountTaskSubmissions(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepository_SubmissionNotes(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()

	repotest.Exec(t, db, `INSERT INTO participants (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id) VALUES (1)`)
	repotest.Exec(t, db, `INSERT INTO submissions (id, task_id, participant_id, status) VALUES (1, 1, 1, 'returned')`)

	note := &model.SubmissionNote{
		ID:            uuid.New(),
		SubmissionID:  1,
		ParticipantID: 1,
		Body:          "link is broken",
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateSubmissionNote(ctx, note))

	notes, err := repo.ListSubmissionNotes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
	assert.Equal(t, "link is broken", notes[0].Body)
}

func TestRepository_GetTask(t *testing.T) {
	repo, db := repotest.New(t)
	ctx := context.Background()

	repotest.Exec(t, db, `INSERT INTO participants (id) VALUES (4), (5)`)
	repotest.Exec(t, db, `INSERT INTO tasks (id, project_id, activity_id, min_level, max_level, number_of_winners)
		VALUES (1, 2, 3, 1, 4, 10)`)
	repotest.Exec(t, db, `INSERT INTO task_rewards (id, task_id, type, value) VALUES
		(2, 1, 'discord_role', 'role-9'), (1, 1, 'coins', '25')`)
	repotest.Exec(t, db, `INSERT INTO task_conditions (task_id, type, value, operator) VALUES (1, 'followers', '100', '>=')`)
	repotest.Exec(t, db, `INSERT INTO task_assignees (task_id, participant_id) VALUES (1, 5), (1, 4)`)

	task, err := repo.GetTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *task.ProjectID)
	assert.Equal(t, int64(3), *task.ActivityID)
	assert.Equal(t, 10, *task.NumberOfWinners)
	assert.Nil(t, task.NumberOfInvites)
	require.Len(t, task.Rewards, 2)
	assert.Equal(t, model.RewardTypeCoins, task.Rewards[0].Type)
	assert.Equal(t, model.RewardTypeDiscordRole, task.Rewards[1].Type)
	assert.Equal(t, []model.Condition{{Type: "followers", Value: "100", Operator: ">="}}, task.Conditions)
	assert.ElementsMatch(t, []int64{4, 5}, task.AssigneeIDs)

	_, err = repo.GetTask(ctx, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
