package service

import (
	"context"

	"ambassador_engine/internal/model"
	"ambassador_engine/pkg/logger"

	"go.uber.org/zap"
)

// publish hands events to the notifier after the state change is committed.
// Delivery failures are logged and never undo the transition.
func publish(ctx context.Context, notifier Notifier, events ...model.Event) {
	if notifier == nil {
		return
	}
	log := logger.Named("events")
	for _, event := range events {
		if err := notifier.Notify(ctx, event); err != nil {
			log.Warn("failed to dispatch event",
				zap.String("type", string(event.Type)),
				zap.Int64("participant_id", event.ParticipantID),
				zap.Error(err))
		}
	}
}

func invalidateLeaderboard(ctx context.Context, cache LeaderboardCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Named("leaderboard").Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}
