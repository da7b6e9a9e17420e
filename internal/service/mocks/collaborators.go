package mocks

import (
	"context"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/reward"

	"github.com/stretchr/testify/mock"
)

type MockRewardDispatcher struct {
	mock.Mock
}

func (m *MockRewardDispatcher) Grant(ctx context.Context, grant reward.Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) Version(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboardCache) Get(ctx context.Context, version int64, criteria model.LeaderboardCriteria) (*model.LeaderboardPage, bool, error) {
	args := m.Called(ctx, version, criteria)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.LeaderboardPage), args.Bool(1), args.Error(2)
}

func (m *MockLeaderboardCache) Set(ctx context.Context, version int64, criteria model.LeaderboardCriteria, page *model.LeaderboardPage) error {
	args := m.Called(ctx, version, criteria, page)
	return args.Error(0)
}

func (m *MockLeaderboardCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
