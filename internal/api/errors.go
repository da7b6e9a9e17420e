package api

import (
	"errors"
	"net/http"
	"strconv"

	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError renders a service error. Domain rule violations carry their
// own message; anything else is logged and hidden.
func writeError(c *gin.Context, msg string, err error) {
	log := logger.Logger()

	switch {
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrCannotLevelUp),
		errors.Is(err, service.ErrInvalidTask):
		log.Info(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotSubmissionOwner):
		log.Info(msg, zap.Error(err))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrParticipantNotFound):
		log.Info(msg, zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRewardHandlerFailure):
		log.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reward payout failed"})
	default:
		log.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		logger.Logger().Info("invalid path parameter", zap.String("param", name), zap.String("value", c.Param(name)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
