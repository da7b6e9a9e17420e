package api

import (
	"net/http"
	"time"

	"ambassador_engine/internal/middleware"
	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/auth"

	"github.com/gin-gonic/gin"
)

type participantRoutes struct {
	ls service.LevelServiceI
	rs service.ReferralServiceI
	ps service.ParticipantServiceI
}

func NewParticipantRoutes(
	handler *gin.RouterGroup,
	ls service.LevelServiceI,
	rs service.ReferralServiceI,
	ps service.ParticipantServiceI,
	a *auth.TelegramAuth,
	authz *middleware.Authorization,
) {
	r := &participantRoutes{ls: ls, rs: rs, ps: ps}
	h := handler.Group("/participants")
	h.Use(a.TelegramAuthMiddleware(), authz.ParticipantOnly())
	{
		h.GET("/:id/level-up", r.CheckLevelUp)
		h.POST("/:id/level-up", r.LevelUp)
		h.GET("/:id/referrals", r.GetReferrals)
		h.GET("/:id/points", r.GetLevelPoints)
	}
}

// selfOrManager lets participants act on their own record and managers on
// anyone's.
func selfOrManager(c *gin.Context, id int64) bool {
	participant, _ := middleware.ParticipantFromContext(c)
	if participant != nil && participant.ID == id {
		return true
	}
	if c.GetBool(middleware.ManagerKey) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	return false
}

func (r *participantRoutes) CheckLevelUp(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !selfOrManager(c, id) {
		return
	}

	result, err := r.ls.CheckLevelUp(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to check level up", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participant_id":       result.ParticipantID,
		"level":                result.Level,
		"points":               result.Points,
		"points_needed":        result.PointsNeeded,
		"leaderboard_position": result.LeaderboardPosition,
		"approved_activities":  result.ApprovedActivities,
		"can_level_up":         result.Eligible,
		"reason":               result.Reason,
	})
}

func (r *participantRoutes) LevelUp(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !selfOrManager(c, id) {
		return
	}

	if err := r.ls.LevelUp(c.Request.Context(), id); err != nil {
		writeError(c, "failed to level up", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leveled_up": true})
}

type referralResponse struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	ReferralID   int64     `json:"referral_id"`
	SubmissionID int64     `json:"submission_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *participantRoutes) GetReferrals(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !selfOrManager(c, id) {
		return
	}

	referrals, err := r.rs.ListReferrals(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to get referrals", err)
		return
	}

	out := make([]referralResponse, len(referrals))
	for i, ref := range referrals {
		out[i] = referralResponse{
			ID:           ref.ID,
			TaskID:       ref.TaskID,
			ReferralID:   ref.ReferralID,
			SubmissionID: ref.SubmissionID,
			CreatedAt:    ref.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}

type levelPointResponse struct {
	Level      int   `json:"level"`
	ProjectID  int64 `json:"project_id"`
	ActivityID int64 `json:"activity_id"`
	Points     int   `json:"points"`
}

// GetLevelPoints renders the participant's ledger. Zero project or activity
// ids mean the credited task had none.
func (r *participantRoutes) GetLevelPoints(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !selfOrManager(c, id) {
		return
	}

	points, err := r.ps.LevelPoints(c.Request.Context(), id)
	if err != nil {
		writeError(c, "failed to get level points", err)
		return
	}

	out := make([]levelPointResponse, len(points))
	for i, p := range points {
		out[i] = levelPointResponse{
			Level:      p.Level,
			ProjectID:  p.ProjectID,
			ActivityID: p.ActivityID,
			Points:     p.Points,
		}
	}

	c.JSON(http.StatusOK, out)
}
