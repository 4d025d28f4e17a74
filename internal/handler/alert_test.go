package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/alert-rca/backend/internal/service"
)

func TestIngestHandlerRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var svc *service.AlertService
	r.POST("/api/v1/alerts/ingest", NewAlertHandler(svc).Ingest)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/ingest", bytes.NewBufferString(`{"severity":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBatchIngestHandlerRejectsObjectBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var svc *service.AlertService
	r.POST("/api/v1/alerts/batch-ingest", NewAlertHandler(svc).BatchIngest)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/batch-ingest", bytes.NewBufferString(`{"not":"an array"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
