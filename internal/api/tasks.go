package api

import (
	"net/http"

	"ambassador_engine/internal/middleware"
	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/auth"

	"github.com/gin-gonic/gin"
)

type taskRoutes struct {
	es service.EligibilityServiceI
	ts service.TaskServiceI
}

func NewTaskRoutes(
	handler *gin.RouterGroup,
	es service.EligibilityServiceI,
	ts service.TaskServiceI,
	a *auth.TelegramAuth,
	authz *middleware.Authorization,
) {
	r := &taskRoutes{es: es, ts: ts}
	h := handler.Group("/tasks")
	h.Use(a.TelegramAuthMiddleware(), authz.ParticipantOnly(), authz.ManagerOnly())
	{
		h.GET("/:id/eligible", r.GetEligible)
		h.POST("/:id/notify", r.NotifyEligible)
		h.GET("/:id/editable", r.GetEditable)
	}
}

type eligibleParticipant struct {
	ID    int64   `json:"id"`
	Level int     `json:"level"`
	Email *string `json:"email"`
}

func (r *taskRoutes) GetEligible(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	participants, err := r.es.EligibleParticipants(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to get eligible participants", err)
		return
	}

	out := make([]eligibleParticipant, len(participants))
	for i, p := range participants {
		out[i] = eligibleParticipant{ID: p.ID, Level: p.Level, Email: p.Email}
	}

	c.JSON(http.StatusOK, out)
}

func (r *taskRoutes) NotifyEligible(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	count, err := r.es.NotifyEligible(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to notify eligible participants", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notified": count})
}

func (r *taskRoutes) GetEditable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	editable, err := r.ts.Editable(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to check task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"editable": editable})
}
