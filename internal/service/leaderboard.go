package service

import (
	"context"
	"fmt"

	"ambassador_engine/internal/model"
	"ambassador_engine/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type LeaderboardService struct {
	repo  LeaderboardRepository
	cache LeaderboardCache
}

func NewLeaderboardService(repo LeaderboardRepository, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		repo:  repo,
		cache: cache,
	}
}

// Position returns the rank-from-top of the row at index on the given page.
// Ascending pages count down from the bottom of the board so a row keeps the
// same position in either direction.
func Position(index, page, perPage, total int, sort model.SortDirection) int {
	if sort == model.SortAsc {
		return (total - perPage*(page-1)) - index
	}
	return index + perPage*(page-1) + 1
}

func normalizeCriteria(c model.LeaderboardCriteria) model.LeaderboardCriteria {
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PerPage < 1 {
		c.PerPage = DefaultPerPage
	}
	if c.PerPage > MaxPerPage {
		c.PerPage = MaxPerPage
	}
	if c.Sort != model.SortAsc {
		c.Sort = model.SortDesc
	}
	return c
}

func (s *LeaderboardService) Rank(ctx context.Context, criteria model.LeaderboardCriteria) (*model.LeaderboardPage, error) {
	log := logger.Named("leaderboard")
	criteria = normalizeCriteria(criteria)

	// The version is read before the ledger query. An approval that commits
	// in between bumps it, and this page lands under the old key.
	var (
		version  int64
		useCache bool
	)
	if s.cache != nil {
		v, err := s.cache.Version(ctx)
		if err != nil {
			log.Warn("leaderboard cache version read failed", zap.Error(err))
		} else {
			version, useCache = v, true
		}
	}

	if useCache {
		page, ok, err := s.cache.Get(ctx, version, criteria)
		if err != nil {
			log.Warn("leaderboard cache read failed", zap.Error(err))
		} else if ok {
			return page, nil
		}
	}

	rows, total, err := s.repo.GetLeaderboard(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	for i, row := range rows {
		row.Position = Position(i, criteria.Page, criteria.PerPage, total, criteria.Sort)
	}

	page := &model.LeaderboardPage{
		Rows:    rows,
		Total:   total,
		Page:    criteria.Page,
		PerPage: criteria.PerPage,
	}

	if useCache {
		if err := s.cache.Set(ctx, version, criteria, page); err != nil {
			log.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}

	return page, nil
}
