// Package cache keeps rendered leaderboard pages in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ambassador_engine/internal/model"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	versionKey = "leaderboard:version"
	pagePrefix = "leaderboard:page:"
)

type Config struct {
	URL string        `mapstructure:"url"`
	TTL time.Duration `mapstructure:"leaderboardTTL"`
}

// Connect accepts either a redis:// URL or a bare host:port.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// LeaderboardCache stores pages under keys that embed a version counter.
// Invalidate bumps the counter, so stale pages are never read again and
// simply expire.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

func criteriaKey(c model.LeaderboardCriteria) string {
	var b strings.Builder
	b.WriteString("a=")
	if c.ActivityID != nil {
		fmt.Fprintf(&b, "%d", *c.ActivityID)
	}
	b.WriteString(":p=")
	if c.ProjectID != nil {
		fmt.Fprintf(&b, "%d", *c.ProjectID)
	}
	b.WriteString(":l=")
	for i, level := range c.Levels {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", level)
	}
	fmt.Fprintf(&b, ":s=%s:pg=%d:pp=%d", c.Sort, c.Page, c.PerPage)
	return b.String()
}

// Version returns the current leaderboard version. Callers read it before
// querying the ledger and pass it to Get and Set, so a page computed before an
// Invalidate is written under a key nobody reads anymore.
func (c *LeaderboardCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read leaderboard version: %w", err)
	}
	return v, nil
}

func pageKey(version int64, criteria model.LeaderboardCriteria) string {
	return fmt.Sprintf("%sv%d:%s", pagePrefix, version, criteriaKey(criteria))
}

func (c *LeaderboardCache) Get(ctx context.Context, version int64, criteria model.LeaderboardCriteria) (*model.LeaderboardPage, bool, error) {
	data, err := c.client.Get(ctx, pageKey(version, criteria)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read leaderboard page: %w", err)
	}

	var page model.LeaderboardPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("failed to decode leaderboard page: %w", err)
	}

	return &page, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, version int64, criteria model.LeaderboardCriteria, page *model.LeaderboardPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard page: %w", err)
	}

	if err := c.client.Set(ctx, pageKey(version, criteria), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store leaderboard page: %w", err)
	}

	return nil
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump leaderboard version: %w", err)
	}
	return nil
}
