// Package reward maps a reward type to the handler that pays it out.
package reward

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ambassador_engine/internal/model"
)

var (
	ErrUnknownRewardType  = errors.New("unknown reward type")
	ErrInvalidRewardValue = errors.New("invalid reward value")
)

type Grant struct {
	Reward       model.Reward
	Participant  *model.Participant
	Task         *model.Task
	SubmissionID int64
}

type Handler interface {
	Grant(ctx context.Context, grant Grant) error
}

type HandlerFunc func(ctx context.Context, grant Grant) error

func (f HandlerFunc) Grant(ctx context.Context, grant Grant) error {
	return f(ctx, grant)
}

type PayoutRepository interface {
	CreateRewardPayout(ctx context.Context, payout *model.RewardPayout) error
}

// Registry is filled once at startup and only read afterwards.
type Registry struct {
	handlers map[model.RewardType]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[model.RewardType]Handler),
	}
}

// NewDefaultRegistry registers the built-in coins and discord_role handlers.
func NewDefaultRegistry(repo PayoutRepository) *Registry {
	r := NewRegistry()
	r.Register(model.RewardTypeCoins, NewCoinsHandler(repo))
	r.Register(model.RewardTypeDiscordRole, NewDiscordRoleHandler(repo))
	return r
}

func (r *Registry) Register(rewardType model.RewardType, h Handler) {
	r.handlers[rewardType] = h
}

func (r *Registry) Types() []model.RewardType {
	types := make([]model.RewardType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (r *Registry) Grant(ctx context.Context, grant Grant) error {
	h, ok := r.handlers[grant.Reward.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRewardType, grant.Reward.Type)
	}
	return h.Grant(ctx, grant)
}
