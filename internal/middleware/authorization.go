package middleware

import (
	"errors"
	"net/http"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/auth"
	"ambassador_engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ParticipantKey = "participant"
	ManagerKey     = "is_manager"
)

// Authorization maps the telegram user onto a participant. Managers are the
// telegram accounts listed in configuration.
type Authorization struct {
	participants service.ParticipantServiceI
	managers     map[int64]struct{}
}

func NewAuthorization(participants service.ParticipantServiceI, managerTelegramIDs []int64) *Authorization {
	managers := make(map[int64]struct{}, len(managerTelegramIDs))
	for _, id := range managerTelegramIDs {
		managers[id] = struct{}{}
	}
	return &Authorization{
		participants: participants,
		managers:     managers,
	}
}

func (a *Authorization) ParticipantOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		telegramUser, ok := auth.UserFromContext(c)
		if !ok {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		participant, err := a.participants.GetParticipantByTelegramID(c.Request.Context(), telegramUser.ID)
		if err != nil {
			if errors.Is(err, service.ErrParticipantNotFound) {
				log.Info("no participant for telegram user", zap.Int64("telegram_id", telegramUser.ID))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "participant not found"})
				return
			}
			log.Error("failed to get participant", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		_, isManager := a.managers[telegramUser.ID]
		c.Set(ParticipantKey, participant)
		c.Set(ManagerKey, isManager)
		c.Next()
	}
}

// ManagerOnly must run after ParticipantOnly.
func (a *Authorization) ManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ManagerKey) {
			participant, _ := ParticipantFromContext(c)
			if participant != nil {
				logger.Logger().Info("unauthorized access attempt to manager endpoint",
					zap.Int64("participant_id", participant.ID))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "manager access required"})
			return
		}
		c.Next()
	}
}

func ParticipantFromContext(c *gin.Context) (*model.Participant, bool) {
	v, exists := c.Get(ParticipantKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*model.Participant)
	return p, ok
}
