package api

import (
	"net/http"
	"strconv"
	"strings"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/auth"

	"github.com/gin-gonic/gin"
)

type leaderboardRoutes struct {
	ls service.LeaderboardServiceI
}

func NewLeaderboardRoutes(handler *gin.RouterGroup, ls service.LeaderboardServiceI, a *auth.TelegramAuth) {
	r := &leaderboardRoutes{ls: ls}
	h := handler.Group("/leaderboard")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("", r.GetLeaderboard)
	}
}

type leaderboardRow struct {
	Position      int   `json:"position"`
	ParticipantID int64 `json:"participant_id"`
	Level         int   `json:"level"`
	TasksCount    int   `json:"tasks_count"`
	TasksPoints   int   `json:"tasks_points"`
	TotalPoints   int   `json:"total_points"`
}

type leaderboardResponse struct {
	Rows    []leaderboardRow `json:"rows"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

func parseOptionalID(raw string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func parseLevels(raw string) ([]int, bool) {
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	levels := make([]int, 0, len(parts))
	for _, p := range parts {
		level, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		levels = append(levels, level)
	}
	return levels, true
}

// GetLeaderboard accepts activity_id, project_id, levels (comma separated),
// sort (asc|desc), page and per_page.
func (r *leaderboardRoutes) GetLeaderboard(c *gin.Context) {
	activityID, ok := parseOptionalID(c.Query("activity_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity_id"})
		return
	}
	projectID, ok := parseOptionalID(c.Query("project_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}
	levels, ok := parseLevels(c.Query("levels"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid levels"})
		return
	}

	sort := model.SortDirection(c.DefaultQuery("sort", string(model.SortDesc)))
	if sort != model.SortAsc && sort != model.SortDesc {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be asc or desc"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(service.DefaultPerPage)))

	result, err := r.ls.Rank(c.Request.Context(), model.LeaderboardCriteria{
		ActivityID: activityID,
		ProjectID:  projectID,
		Levels:     levels,
		Sort:       sort,
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		writeError(c, "failed to get leaderboard", err)
		return
	}

	out := leaderboardResponse{
		Rows:    make([]leaderboardRow, len(result.Rows)),
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
	}
	for i, row := range result.Rows {
		out.Rows[i] = leaderboardRow{
			Position:      row.Position,
			ParticipantID: row.ParticipantID,
			Level:         row.Level,
			TasksCount:    row.TasksCount,
			TasksPoints:   row.TasksPoints,
			TotalPoints:   row.TotalPoints,
		}
	}

	c.JSON(http.StatusOK, out)
}
