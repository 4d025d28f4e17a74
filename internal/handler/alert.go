// 알림 수집/조회 HTTP 핸들러 정의
// 검증/정규화는 service 레이어 책임, handler는 바인딩과 상태 코드 변환만 담당

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alert-rca/backend/internal/model"
	"github.com/alert-rca/backend/internal/service"
)

type AlertHandler struct {
	svc *service.AlertService
}

func NewAlertHandler(svc *service.AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// Ingest godoc
// @Summary Ingest a single alert
// @Description Validates, normalizes and stores an alert from a monitoring system.
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body model.IngestAlertRequest true "Alert payload"
// @Success 201 {object} model.Alert
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/alerts/ingest [post]
func (h *AlertHandler) Ingest(c *gin.Context) {
	var req model.IngestAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	alert, err := h.svc.Ingest(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// BatchIngest godoc
// @Summary Ingest multiple alerts
// @Description Processes each alert independently. Individual failures do not abort the batch.
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body []model.IngestAlertRequest true "Alert payloads"
// @Success 200 {object} model.BatchIngestResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/alerts/batch-ingest [post]
func (h *AlertHandler) BatchIngest(c *gin.Context) {
	var reqs []model.IngestAlertRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := h.svc.BatchIngest(c.Request.Context(), reqs)
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary List alerts
// @Tags alerts
// @Produce json
// @Param host_name query string false "Filter by host name"
// @Param service_name query string false "Filter by service name"
// @Param status query string false "Filter by status"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Max results" default(100)
// @Success 200 {object} model.AlertListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	filter := model.AlertFilter{
		HostName:    c.Query("host_name"),
		ServiceName: c.Query("service_name"),
		Status:      c.Query("status"),
		Skip:        queryInt(c, "skip", 0),
		Limit:       queryInt(c, "limit", 100),
	}

	alerts, err := h.svc.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.AlertListResponse{
		Alerts: alerts,
		Total:  len(alerts),
		Skip:   filter.Skip,
		Limit:  filter.Limit,
	})
}

// Get godoc
// @Summary Get a single alert
// @Tags alerts
// @Produce json
// @Param alert_id path string true "Alert ID"
// @Success 200 {object} model.Alert
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/alerts/{alert_id} [get]
func (h *AlertHandler) Get(c *gin.Context) {
	alert, err := h.svc.GetAlert(c.Request.Context(), c.Param("alert_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// Ungrouped godoc
// @Summary List ungrouped alerts
// @Description Alerts not yet assigned to any group, oldest first.
// @Tags alerts
// @Produce json
// @Success 200 {object} model.UngroupedAlertsResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/alerts/ungrouped/list [get]
func (h *AlertHandler) Ungrouped(c *gin.Context) {
	alerts, err := h.svc.GetUngroupedAlerts(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UngroupedAlertsResponse{
		UngroupedAlerts: alerts,
		Count:           len(alerts),
	})
}

// Stats godoc
// @Summary Alert statistics
// @Description Severity/status distribution and top hosts/services over recent alerts.
// @Tags alerts
// @Produce json
// @Success 200 {object} model.AlertStatsResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/alerts/stats/summary [get]
func (h *AlertHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}
