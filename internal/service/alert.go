// Alert 수집(ingestion) 비즈니스 로직 정의
//
// 처리 흐름:
//  1. 필수 필드/심각도 검증 (실패 시 ErrValidation, 저장소는 건드리지 않음)
//  2. host/service/alert_name/severity trim + 소문자 정규화
//  3. id/타임스탬프 채워서 DB 저장
//  4. 지식 베이스 인덱싱을 비동기로 요청 (실패해도 수집은 성공)

package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alert-rca/backend/internal/model"
)

var requiredAlertFields = []string{
	"monitoring_system", "host_name", "service_name",
	"alert_name", "severity", "message",
}

// alertStore - AlertService가 필요로 하는 저장소 연산
type alertStore interface {
	CreateAlert(ctx context.Context, alert model.Alert) error
	GetAlert(ctx context.Context, alertID string) (*model.Alert, error)
	ListAlerts(ctx context.Context, filter model.AlertFilter) ([]model.Alert, error)
	GetUngroupedAlerts(ctx context.Context) ([]model.Alert, error)
}

// alertIndexer - 수집된 알림을 지식 베이스에 밀어넣는 인덱서
type alertIndexer interface {
	IndexAlert(ctx context.Context, alert model.Alert) error
}

type AlertService struct {
	store   alertStore
	indexer alertIndexer
	noRows  func(error) bool
}

func NewAlertService(store alertStore, indexer alertIndexer, noRows func(error) bool) *AlertService {
	return &AlertService{store: store, indexer: indexer, noRows: noRows}
}

// Ingest - 단건 수집
// 검증 실패는 해당 알림에 대해 종결이며 재시도하지 않음
func (s *AlertService) Ingest(ctx context.Context, req model.IngestAlertRequest) (*model.Alert, error) {
	if err := validateAlertRequest(req); err != nil {
		return nil, err
	}

	alert := normalizeAlert(req)
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	log.Printf("Alert ingested successfully: %s", alert.ID)

	// 지식 베이스 반영은 best-effort - 실패해도 수집 요청은 성공 처리
	go func(a model.Alert) {
		if err := s.indexer.IndexAlert(context.Background(), a); err != nil {
			log.Printf("Warning: failed to add alert %s to knowledge base: %v", a.ID, err)
		}
	}(alert)

	return &alert, nil
}

// BatchIngest - 배치 수집
// 개별 항목 실패는 기록만 하고 나머지 항목 처리를 계속함
func (s *AlertService) BatchIngest(ctx context.Context, reqs []model.IngestAlertRequest) model.BatchIngestResponse {
	resp := model.BatchIngestResponse{
		CreatedAlerts: []model.Alert{},
		Errors:        []model.BatchIngestError{},
	}

	for i, req := range reqs {
		alert, err := s.Ingest(ctx, req)
		if err != nil {
			resp.Errors = append(resp.Errors, model.BatchIngestError{
				Index: i,
				Error: err.Error(),
				Alert: req,
			})
			continue
		}
		resp.CreatedAlerts = append(resp.CreatedAlerts, *alert)
	}

	resp.SuccessfulCount = len(resp.CreatedAlerts)
	resp.ErrorCount = len(resp.Errors)
	return resp
}

func (s *AlertService) GetAlert(ctx context.Context, alertID string) (*model.Alert, error) {
	alert, err := s.store.GetAlert(ctx, alertID)
	if err != nil {
		if s.noRows(err) {
			return nil, fmt.Errorf("%w: alert %s", ErrNotFound, alertID)
		}
		return nil, err
	}
	return alert, nil
}

func (s *AlertService) ListAlerts(ctx context.Context, filter model.AlertFilter) ([]model.Alert, error) {
	// 필터 값도 저장 형태에 맞춰 소문자로
	filter.HostName = strings.ToLower(strings.TrimSpace(filter.HostName))
	filter.ServiceName = strings.ToLower(strings.TrimSpace(filter.ServiceName))
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.store.ListAlerts(ctx, filter)
}

func (s *AlertService) GetUngroupedAlerts(ctx context.Context) ([]model.Alert, error) {
	return s.store.GetUngroupedAlerts(ctx)
}

// Stats - 최근 알림 100건 기준 통계 요약
func (s *AlertService) Stats(ctx context.Context) (*model.AlertStatsResponse, error) {
	alerts, err := s.store.ListAlerts(ctx, model.AlertFilter{Limit: 100})
	if err != nil {
		return nil, err
	}

	stats := model.AlertStatsResponse{
		TotalAlerts:          len(alerts),
		SeverityDistribution: map[string]int{},
		StatusDistribution:   map[string]int{},
	}

	hostCounts := map[string]int{}
	serviceCounts := map[string]int{}
	for _, a := range alerts {
		stats.SeverityDistribution[a.Severity]++
		stats.StatusDistribution[a.Status]++
		hostCounts[a.HostName]++
		serviceCounts[a.ServiceName]++
	}

	stats.TopHosts = topN(hostCounts, 10)
	stats.TopServices = topN(serviceCounts, 10)
	return &stats, nil
}

// validateAlertRequest - 필수 필드와 심각도 검증
func validateAlertRequest(req model.IngestAlertRequest) error {
	values := map[string]string{
		"monitoring_system": req.MonitoringSystem,
		"host_name":         req.HostName,
		"service_name":      req.ServiceName,
		"alert_name":        req.AlertName,
		"severity":          req.Severity,
		"message":           req.Message,
	}

	for _, field := range requiredAlertFields {
		if strings.TrimSpace(values[field]) == "" {
			return fmt.Errorf("%w: missing or empty required field: %s", ErrValidation, field)
		}
	}

	if !model.ValidSeverities[strings.ToLower(strings.TrimSpace(req.Severity))] {
		return fmt.Errorf("%w: invalid severity: %s", ErrValidation, req.Severity)
	}

	return nil
}

// normalizeAlert - 저장용 Alert 레코드 생성
// 그룹 키 안정성을 위해 host/service/alert_name/severity는 trim + 소문자
func normalizeAlert(req model.IngestAlertRequest) model.Alert {
	now := time.Now().UTC()
	timestamp := now
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	return model.Alert{
		ID:               uuid.NewString(),
		MonitoringSystem: strings.TrimSpace(req.MonitoringSystem),
		HostName:         strings.ToLower(strings.TrimSpace(req.HostName)),
		ServiceName:      strings.ToLower(strings.TrimSpace(req.ServiceName)),
		AlertName:        strings.ToLower(strings.TrimSpace(req.AlertName)),
		Severity:         strings.ToLower(strings.TrimSpace(req.Severity)),
		Status:           model.AlertStatusActive,
		Message:          req.Message,
		Details:          req.Details,
		Timestamp:        timestamp,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func topN(counts map[string]int, n int) map[string]int {
	type kv struct {
		key   string
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	top := make(map[string]int, len(sorted))
	for _, entry := range sorted {
		top[entry.key] = entry.count
	}
	return top
}
