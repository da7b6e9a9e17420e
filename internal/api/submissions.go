package api

import (
	"net/http"
	"time"

	"ambassador_engine/internal/middleware"
	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/auth"
	"ambassador_engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type submissionRoutes struct {
	ss service.SubmissionServiceI
}

func NewSubmissionRoutes(handler *gin.RouterGroup, ss service.SubmissionServiceI, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &submissionRoutes{ss: ss}
	h := handler.Group("/submissions")
	h.Use(a.TelegramAuthMiddleware(), authz.ParticipantOnly())
	{
		h.POST("/:id/report", r.Report)

		manager := h.Group("", authz.ManagerOnly())
		manager.POST("/:id/revision", r.TakeOnRevision)
		manager.POST("/:id/approve", r.Approve)
		manager.POST("/:id/reject", r.Reject)
		manager.POST("/:id/return", r.Return)
		manager.GET("/:id/notes", r.GetNotes)
		manager.GET("/:id/payouts", r.GetPayouts)
	}
}

type ReportRequest struct {
	Report string `json:"report" binding:"required"`
}

func (r *submissionRoutes) Report(c *gin.Context) {
	log := logger.Logger()

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	participant, _ := middleware.ParticipantFromContext(c)
	if err := r.ss.Report(c.Request.Context(), id, participant.ID, req.Report); err != nil {
		writeError(c, "failed to report submission", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "waiting_for_review"})
}

func (r *submissionRoutes) TakeOnRevision(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	manager, _ := middleware.ParticipantFromContext(c)
	if err := r.ss.TakeOnRevision(c.Request.Context(), id, manager.ID); err != nil {
		writeError(c, "failed to take submission on revision", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "on_revision"})
}

type ApproveRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

func (r *submissionRoutes) Approve(c *gin.Context) {
	log := logger.Logger()

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := r.ss.Approve(c.Request.Context(), id, *req.Rating); err != nil {
		writeError(c, "failed to approve submission", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "done", "rating": *req.Rating})
}

func (r *submissionRoutes) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := r.ss.Reject(c.Request.Context(), id); err != nil {
		writeError(c, "failed to reject submission", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

type ReturnRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (r *submissionRoutes) Return(c *gin.Context) {
	log := logger.Logger()

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := r.ss.Return(c.Request.Context(), id, req.Comment); err != nil {
		writeError(c, "failed to return submission", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "returned"})
}

type noteResponse struct {
	ID            string    `json:"id"`
	ParticipantID int64     `json:"participant_id"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *submissionRoutes) GetNotes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	notes, err := r.ss.Notes(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to get submission notes", err)
		return
	}

	out := make([]noteResponse, len(notes))
	for i, n := range notes {
		out[i] = noteResponse{
			ID:            n.ID.String(),
			ParticipantID: n.ParticipantID,
			Body:          n.Body,
			CreatedAt:     n.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}

type payoutResponse struct {
	TaskID    int64     `json:"task_id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *submissionRoutes) GetPayouts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payouts, err := r.ss.Payouts(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to get reward payouts", err)
		return
	}

	out := make([]payoutResponse, len(payouts))
	for i, p := range payouts {
		out[i] = payoutResponse{
			TaskID:    p.TaskID,
			Type:      string(p.Type),
			Value:     p.Value,
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}
