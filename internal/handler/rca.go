// RCA 조회/검색/지식 베이스 관리 HTTP 핸들러 정의

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alert-rca/backend/internal/model"
	"github.com/alert-rca/backend/internal/service"
)

type RCAHandler struct {
	rca       *service.RCAService
	knowledge *service.KnowledgeService
}

func NewRCAHandler(rca *service.RCAService, knowledge *service.KnowledgeService) *RCAHandler {
	return &RCAHandler{rca: rca, knowledge: knowledge}
}

// Get godoc
// @Summary Get (or synchronously generate) an RCA report
// @Description Returns the stored report if completed. Otherwise generates one synchronously. regenerate=true forces a fresh report.
// @Tags rca
// @Produce json
// @Param group_id path string true "Group ID"
// @Param regenerate query bool false "Force regeneration"
// @Success 200 {object} model.RCAReport
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/{group_id} [get]
func (h *RCAHandler) Get(c *gin.Context) {
	report, err := h.rca.GenerateSync(c.Request.Context(), c.Param("group_id"), c.Query("regenerate") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if report.Status == model.RCAStatusFailed {
		c.JSON(http.StatusInternalServerError, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// QuickAnalysis godoc
// @Summary Quick incident assessment
// @Description Short generated assessment without similarity retrieval or persistence.
// @Tags rca
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} model.QuickAnalysisResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/{group_id}/quick-analysis [get]
func (h *RCAHandler) QuickAnalysis(c *gin.Context) {
	resp, err := h.rca.QuickAnalysis(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SimilarIncidents godoc
// @Summary Find incidents similar to a group
// @Tags rca
// @Produce json
// @Param group_id path string true "Group ID"
// @Param limit query int false "Max results"
// @Success 200 {object} model.SimilarIncidentsResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/{group_id}/similar-incidents [get]
func (h *RCAHandler) SimilarIncidents(c *gin.Context) {
	query, err := h.rca.GroupSearchQuery(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	incidents, err := h.knowledge.SearchSimilarIncidents(c.Request.Context(), query, queryInt(c, "limit", 0))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SimilarIncidentsResponse{
		Query:      query,
		Incidents:  incidents,
		TotalFound: len(incidents),
	})
}

// SearchIncidents godoc
// @Summary Free-text incident search
// @Tags rca
// @Accept json
// @Produce json
// @Param request body model.SearchIncidentsRequest true "Search query"
// @Success 200 {object} model.SimilarIncidentsResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/search-incidents [post]
func (h *RCAHandler) SearchIncidents(c *gin.Context) {
	var req model.SearchIncidentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	incidents, err := h.knowledge.SearchSimilarIncidents(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SimilarIncidentsResponse{
		Query:      req.Query,
		Incidents:  incidents,
		TotalFound: len(incidents),
	})
}

// GenerateCustom godoc
// @Summary Ad-hoc RCA for unsaved alerts
// @Description Builds an ephemeral group from the supplied alerts and generates a report without persisting anything.
// @Tags rca
// @Accept json
// @Produce json
// @Param request body model.CustomRCARequest true "Alerts to analyze"
// @Success 200 {object} model.RCAReport
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/generate-custom [post]
func (h *RCAHandler) GenerateCustom(c *gin.Context) {
	var req model.CustomRCARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.rca.CustomRCA(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// KnowledgeStats godoc
// @Summary Knowledge base statistics
// @Tags rca
// @Produce json
// @Success 200 {object} model.KnowledgeStatsResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/knowledge-base/stats [get]
func (h *RCAHandler) KnowledgeStats(c *gin.Context) {
	stats, err := h.knowledge.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RebuildKnowledge godoc
// @Summary Rebuild the knowledge base
// @Description Drops all documents and re-indexes every stored alert and group.
// @Tags rca
// @Produce json
// @Success 200 {object} model.RebuildResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/rca/knowledge-base/rebuild [post]
func (h *RCAHandler) RebuildKnowledge(c *gin.Context) {
	resp, err := h.knowledge.Rebuild(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
