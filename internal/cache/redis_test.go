package cache

import (
	"context"
	"testing"
	"time"

	"ambassador_engine/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaKey(t *testing.T) {
	activity := int64(7)
	project := int64(1)

	assert.Equal(t, "a=:p=:l=:s=desc:pg=1:pp=20", criteriaKey(model.LeaderboardCriteria{
		Sort: model.SortDesc, Page: 1, PerPage: 20,
	}))
	assert.Equal(t, "a=7:p=1:l=2,3:s=asc:pg=2:pp=10", criteriaKey(model.LeaderboardCriteria{
		ActivityID: &activity, ProjectID: &project, Levels: []int{2, 3}, Sort: model.SortAsc, Page: 2, PerPage: 10,
	}))
	assert.NotEqual(t,
		criteriaKey(model.LeaderboardCriteria{ActivityID: &activity}),
		criteriaKey(model.LeaderboardCriteria{ProjectID: &activity}),
	)
}

func TestConnect(t *testing.T) {
	client, err := Connect(context.Background(), "redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	client, err = Connect(context.Background(), "localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)

	_, err = Connect(context.Background(), "redis://bad host:x")
	assert.Error(t, err)
}

func newTestCache(t *testing.T) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewLeaderboardCache(client, time.Minute), mr
}

func testPage(totalPoints int) *model.LeaderboardPage {
	return &model.LeaderboardPage{
		Rows:    []*model.LeaderboardRow{{ParticipantID: 3, TotalPoints: totalPoints, Position: 1}},
		Total:   1,
		Page:    1,
		PerPage: 20,
	}
}

func TestLeaderboardCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	criteria := model.LeaderboardCriteria{Sort: model.SortDesc, Page: 1, PerPage: 20}

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	_, ok, err := c.Get(ctx, v, criteria)
	require.NoError(t, err)
	assert.False(t, ok)

	page := testPage(50)
	require.NoError(t, c.Set(ctx, v, criteria, page))

	cached, ok, err := c.Get(ctx, v, criteria)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, page, cached)

	other := criteria
	other.Page = 2
	_, ok, err = c.Get(ctx, v, other)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, v, criteria)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeaderboardCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	criteria := model.LeaderboardCriteria{Sort: model.SortDesc, Page: 1, PerPage: 20}

	require.NoError(t, c.Set(ctx, 0, criteria, testPage(50)))
	require.NoError(t, c.Invalidate(ctx))

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, ok, err := c.Get(ctx, v, criteria)
	require.NoError(t, err)
	assert.False(t, ok)
}

// A ranking computed before an approval commits must not be served after the
// approval invalidates the board.
func TestLeaderboardCache_WriteAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	criteria := model.LeaderboardCriteria{Sort: model.SortDesc, Page: 1, PerPage: 20}

	before, err := c.Version(ctx)
	require.NoError(t, err)
	_, ok, err := c.Get(ctx, before, criteria)
	require.NoError(t, err)
	require.False(t, ok)

	// approval commits while the ranking query is in flight
	require.NoError(t, c.Invalidate(ctx))

	require.NoError(t, c.Set(ctx, before, criteria, testPage(0)))

	after, err := c.Version(ctx)
	require.NoError(t, err)
	_, ok, err = c.Get(ctx, after, criteria)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh := testPage(15)
	require.NoError(t, c.Set(ctx, after, criteria, fresh))
	cached, ok, err := c.Get(ctx, after, criteria)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 15, cached.Rows[0].TotalPoints)
}

func TestLeaderboardCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.Version(ctx)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(ctx))
}
