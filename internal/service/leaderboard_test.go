package service

import (
	"context"
	"errors"
	"testing"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		page     int
		perPage  int
		total    int
		sort     model.SortDirection
		expected int
	}{
		{name: "Descending third row on second page", index: 2, page: 2, perPage: 10, total: 25, sort: model.SortDesc, expected: 13},
		{name: "Ascending first row on second page", index: 0, page: 2, perPage: 10, total: 25, sort: model.SortAsc, expected: 15},
		{name: "Descending top of board", index: 0, page: 1, perPage: 10, total: 25, sort: model.SortDesc, expected: 1},
		{name: "Ascending first row on first page", index: 0, page: 1, perPage: 10, total: 25, sort: model.SortAsc, expected: 25},
		{name: "Ascending last row of last page", index: 4, page: 3, perPage: 10, total: 25, sort: model.SortAsc, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Position(tt.index, tt.page, tt.perPage, tt.total, tt.sort))
		})
	}
}

func TestNormalizeCriteria(t *testing.T) {
	c := normalizeCriteria(model.LeaderboardCriteria{Page: 0, PerPage: 1000, Sort: "sideways"})
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, MaxPerPage, c.PerPage)
	assert.Equal(t, model.SortDesc, c.Sort)

	c = normalizeCriteria(model.LeaderboardCriteria{Page: 3, Sort: model.SortAsc})
	assert.Equal(t, 3, c.Page)
	assert.Equal(t, DefaultPerPage, c.PerPage)
	assert.Equal(t, model.SortAsc, c.Sort)
}

func TestLeaderboardService_Rank(t *testing.T) {
	criteria := model.LeaderboardCriteria{Page: 2, PerPage: 10, Sort: model.SortAsc}
	rows := func() []*model.LeaderboardRow {
		return []*model.LeaderboardRow{
			{ParticipantID: 1, TotalPoints: 5},
			{ParticipantID: 2, TotalPoints: 6},
		}
	}

	t.Run("Cache miss assigns positions and stores the page", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		cache := &mocks.MockLeaderboardCache{}
		svc := NewLeaderboardService(repo, cache)

		cache.On("Version", mock.Anything).Return(int64(4), nil)
		cache.On("Get", mock.Anything, int64(4), criteria).Return(nil, false, nil)
		repo.On("GetLeaderboard", mock.Anything, criteria).Return(rows(), 25, nil)
		cache.On("Set", mock.Anything, int64(4), criteria, mock.AnythingOfType("*model.LeaderboardPage")).Return(nil)

		page, err := svc.Rank(context.Background(), criteria)

		require.NoError(t, err)
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 15, page.Rows[0].Position)
		assert.Equal(t, 14, page.Rows[1].Position)
		cache.AssertExpectations(t)
	})

	t.Run("Cache hit skips the database", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		cache := &mocks.MockLeaderboardCache{}
		svc := NewLeaderboardService(repo, cache)

		cached := &model.LeaderboardPage{Total: 1, Page: 2, PerPage: 10}
		cache.On("Version", mock.Anything).Return(int64(0), nil)
		cache.On("Get", mock.Anything, int64(0), criteria).Return(cached, true, nil)

		page, err := svc.Rank(context.Background(), criteria)

		require.NoError(t, err)
		assert.Same(t, cached, page)
		repo.AssertNotCalled(t, "GetLeaderboard", mock.Anything, mock.Anything)
	})

	t.Run("Cache errors fall back to the database", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		cache := &mocks.MockLeaderboardCache{}
		svc := NewLeaderboardService(repo, cache)

		cache.On("Version", mock.Anything).Return(int64(1), nil)
		cache.On("Get", mock.Anything, int64(1), criteria).Return(nil, false, errors.New("timeout"))
		repo.On("GetLeaderboard", mock.Anything, criteria).Return(rows(), 25, nil)
		cache.On("Set", mock.Anything, int64(1), criteria, mock.Anything).Return(errors.New("timeout"))

		page, err := svc.Rank(context.Background(), criteria)

		require.NoError(t, err)
		assert.Len(t, page.Rows, 2)
	})

	t.Run("Page is stored under the version read before the query", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		cache := &mocks.MockLeaderboardCache{}
		svc := NewLeaderboardService(repo, cache)

		cache.On("Version", mock.Anything).Return(int64(7), nil).Once()
		cache.On("Get", mock.Anything, int64(7), criteria).Return(nil, false, nil)
		repo.On("GetLeaderboard", mock.Anything, criteria).Return(rows(), 25, nil)
		cache.On("Set", mock.Anything, int64(7), criteria, mock.Anything).Return(nil)

		_, err := svc.Rank(context.Background(), criteria)

		require.NoError(t, err)
		cache.AssertNumberOfCalls(t, "Version", 1)
		cache.AssertExpectations(t)
	})

	t.Run("Unreadable version bypasses the cache", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		cache := &mocks.MockLeaderboardCache{}
		svc := NewLeaderboardService(repo, cache)

		cache.On("Version", mock.Anything).Return(int64(0), errors.New("timeout"))
		repo.On("GetLeaderboard", mock.Anything, criteria).Return(rows(), 25, nil)

		page, err := svc.Rank(context.Background(), criteria)

		require.NoError(t, err)
		assert.Len(t, page.Rows, 2)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Without cache", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		svc := NewLeaderboardService(repo, nil)

		desc := model.LeaderboardCriteria{Page: 1, PerPage: DefaultPerPage, Sort: model.SortDesc}
		repo.On("GetLeaderboard", mock.Anything, desc).Return(rows(), 2, nil)

		page, err := svc.Rank(context.Background(), model.LeaderboardCriteria{})

		require.NoError(t, err)
		assert.Equal(t, 1, page.Rows[0].Position)
		assert.Equal(t, 2, page.Rows[1].Position)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := &mocks.MockLeaderboardRepository{}
		svc := NewLeaderboardService(repo, nil)

		repo.On("GetLeaderboard", mock.Anything, mock.Anything).Return(nil, 0, errors.New("boom"))

		_, err := svc.Rank(context.Background(), criteria)
		assert.Error(t, err)
	})
}
