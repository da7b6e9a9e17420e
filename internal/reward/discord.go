package reward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ambassador_engine/internal/model"
)

// DiscordRoleHandler queues a role grant for the Discord bot.
type DiscordRoleHandler struct {
	repo PayoutRepository
}

func NewDiscordRoleHandler(repo PayoutRepository) *DiscordRoleHandler {
	return &DiscordRoleHandler{repo: repo}
}

func (h *DiscordRoleHandler) Grant(ctx context.Context, grant Grant) error {
	roleID := strings.TrimSpace(grant.Reward.Value)
	if roleID == "" {
		return fmt.Errorf("%w: discord role id is empty", ErrInvalidRewardValue)
	}

	err := h.repo.CreateRewardPayout(ctx, &model.RewardPayout{
		ParticipantID: grant.Participant.ID,
		TaskID:        grant.Task.ID,
		SubmissionID:  grant.SubmissionID,
		Type:          model.RewardTypeDiscordRole,
		Value:         roleID,
		Status:        model.RewardPayoutPending,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to queue discord role grant: %w", err)
	}

	return nil
}
