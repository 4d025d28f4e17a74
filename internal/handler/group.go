// 알림 그룹 HTTP 핸들러 정의

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alert-rca/backend/internal/model"
	"github.com/alert-rca/backend/internal/service"
)

type GroupHandler struct {
	grouping *service.GroupingService
	rca      *service.RCAService
}

func NewGroupHandler(grouping *service.GroupingService, rca *service.RCAService) *GroupHandler {
	return &GroupHandler{grouping: grouping, rca: rca}
}

// CreateGroups godoc
// @Summary Group all ungrouped alerts
// @Description Partitions ungrouped alerts by host/service key, reusing existing groups where possible.
// @Tags groups
// @Produce json
// @Success 200 {object} model.GroupCreationResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/groups/create [post]
func (h *GroupHandler) CreateGroups(c *gin.Context) {
	resp, err := h.grouping.CreateGroupsFromUngroupedAlerts(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary List alert groups
// @Tags groups
// @Produce json
// @Param status query string false "Filter by group status"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Max results" default(100)
// @Success 200 {object} model.GroupListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	resp, err := h.grouping.GetGroups(c.Request.Context(),
		c.Query("status"), queryInt(c, "skip", 0), queryInt(c, "limit", 100))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a group with its alerts
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} model.AlertGroup
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/groups/{group_id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.grouping.GetGroup(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// Delete godoc
// @Summary Delete a group (soft delete)
// @Description Releases member alerts back to the ungrouped pool and marks the group deleted.
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} model.GroupDeleteResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/groups/{group_id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	resp, err := h.grouping.DeleteGroup(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateRCA godoc
// @Summary Start RCA generation for a group
// @Description Returns immediately; generation runs in the background. Cached reports are returned as-is unless force=true.
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Param force query bool false "Regenerate even if a report exists"
// @Success 200 {object} model.RCAReport "Cached report"
// @Success 202 {object} model.RCAAcceptedResponse "Generation started"
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/groups/{group_id}/generate-rca [post]
func (h *GroupHandler) GenerateRCA(c *gin.Context) {
	groupID := c.Param("group_id")
	force := c.Query("force") == "true"

	outcome, err := h.rca.StartGeneration(c.Request.Context(), groupID, force)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if !outcome.Started {
		c.JSON(http.StatusOK, outcome.CachedReport)
		return
	}

	c.JSON(http.StatusAccepted, model.RCAAcceptedResponse{
		Message:   "RCA generation started",
		GroupID:   groupID,
		RCAStatus: model.RCAStatusGenerating,
	})
}

// RCAStatus godoc
// @Summary Check RCA generation status
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} model.RCAStatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/groups/{group_id}/rca-status [get]
func (h *GroupHandler) RCAStatus(c *gin.Context) {
	status, err := h.rca.Status(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Stats godoc
// @Summary Group statistics
// @Tags groups
// @Produce json
// @Success 200 {object} model.GroupStatsResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/groups/stats/summary [get]
func (h *GroupHandler) Stats(c *gin.Context) {
	stats, err := h.grouping.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
