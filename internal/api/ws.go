package api

import (
	"net/http"

	"ambassador_engine/internal/middleware"
	"ambassador_engine/internal/notify"
	"ambassador_engine/pkg/auth"
	"ambassador_engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsRoutes struct {
	hub *notify.Hub
}

func NewWSRoutes(handler *gin.RouterGroup, hub *notify.Hub, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &wsRoutes{hub: hub}
	h := handler.Group("/ws")
	h.Use(a.TelegramAuthMiddleware(), authz.ParticipantOnly())

	h.GET("/:participant_id", r.handleWebSocket)
}

// handleWebSocket streams the participant's own events until the client
// disconnects.
func (r *wsRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	id, ok := paramID(c, "participant_id")
	if !ok {
		return
	}

	participant, _ := middleware.ParticipantFromContext(c)
	if participant == nil || participant.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	r.hub.Register(id, conn)
}
