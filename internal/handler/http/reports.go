package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/aniladanir/campaign-messenger/internal/service"
	"github.com/gin-gonic/gin"
)

type conversationsResponse struct {
	Conversations []service.ConversationView `json:"conversations"`
}

// GetStatistics godoc
// @Summary Message statistics of a project
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param projectId path string true "project id"
// @Success 200 {object} domain.Statistics
// @Router /statistics/{projectId} [get]
// @Router /realtime-statistics/{projectId} [get]
func (h *Handler) getStatistics(c *gin.Context) {
	stats, err := h.statistics.Aggregate(c.Request.Context(), scopedProject(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListConversations godoc
// @Summary Conversations of a project, most recently updated first
// @Tags Conversations
// @Security BearerAuth
// @Produce json
// @Param projectId path string true "project id"
// @Success 200 {object} conversationsResponse
// @Router /conversations/{projectId} [get]
func (h *Handler) listConversations(c *gin.Context) {
	views, err := h.projects.ListConversations(c.Request.Context(), scopedProject(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if views == nil {
		views = []service.ConversationView{}
	}
	c.JSON(http.StatusOK, conversationsResponse{Conversations: views})
}

// ExportReport godoc
// @Summary Export the latest message of every conversation as csv
// @Tags Reports
// @Security BearerAuth
// @Produce text/csv
// @Param id path string true "project id"
// @Success 200 {file} file
// @Router /project/{id}/reports [get]
func (h *Handler) exportReport(c *gin.Context) {
	project := scopedProject(c)

	var buf bytes.Buffer
	if err := h.projects.WriteReport(c.Request.Context(), project.ID, &buf); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.csv"`, project.ID))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// DashboardStats godoc
// @Summary Totals across the caller's projects
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Overview
// @Router /dashboard/stats [get]
func (h *Handler) dashboardStats(c *gin.Context) {
	overview, err := h.projects.Overview(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
