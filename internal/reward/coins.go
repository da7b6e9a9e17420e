package reward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ambassador_engine/internal/model"

	"github.com/shopspring/decimal"
)

// CoinsHandler books a pending coin payout; the wallet side settles it.
type CoinsHandler struct {
	repo PayoutRepository
}

func NewCoinsHandler(repo PayoutRepository) *CoinsHandler {
	return &CoinsHandler{repo: repo}
}

func (h *CoinsHandler) Grant(ctx context.Context, grant Grant) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(grant.Reward.Value))
	if err != nil {
		return fmt.Errorf("%w: coins amount %q", ErrInvalidRewardValue, grant.Reward.Value)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: coins amount must be positive, got %s", ErrInvalidRewardValue, amount)
	}

	err = h.repo.CreateRewardPayout(ctx, &model.RewardPayout{
		ParticipantID: grant.Participant.ID,
		TaskID:        grant.Task.ID,
		SubmissionID:  grant.SubmissionID,
		Type:          model.RewardTypeCoins,
		Value:         amount.String(),
		Status:        model.RewardPayoutPending,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to book coins payout: %w", err)
	}

	return nil
}
