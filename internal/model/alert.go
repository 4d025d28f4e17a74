// Alert 도메인 모델 및 수집 API 요청/응답 구조체 정의
// handler, service, db 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의

package model

import "time"

// Alert 심각도 레벨 (소문자로 정규화되어 저장됨)
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Alert 상태
const (
	AlertStatusActive       = "active"
	AlertStatusResolved     = "resolved"
	AlertStatusAcknowledged = "acknowledged"
)

// ValidSeverities - 허용되는 심각도 집합
var ValidSeverities = map[string]bool{
	SeverityCritical: true,
	SeverityHigh:     true,
	SeverityMedium:   true,
	SeverityLow:      true,
	SeverityInfo:     true,
}

// Alert - 개별 알림 레코드
// host_name/service_name/alert_name/severity는 수집 시점에 trim + 소문자로 정규화됨
// GroupID는 그룹핑 전에는 nil
type Alert struct {
	ID               string         `json:"id"`
	MonitoringSystem string         `json:"monitoring_system"`
	HostName         string         `json:"host_name"`
	ServiceName      string         `json:"service_name"`
	AlertName        string         `json:"alert_name"`
	Severity         string         `json:"severity"`
	Status           string         `json:"status"`
	Message          string         `json:"message"`
	Details          map[string]any `json:"details,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	GroupID          *string        `json:"group_id"`
}

// IngestAlertRequest - 모니터링 시스템이 보내는 수집 페이로드
type IngestAlertRequest struct {
	MonitoringSystem string         `json:"monitoring_system"`
	HostName         string         `json:"host_name"`
	ServiceName      string         `json:"service_name"`
	AlertName        string         `json:"alert_name"`
	Severity         string         `json:"severity"`
	Message          string         `json:"message"`
	Details          map[string]any `json:"details,omitempty"`
	Timestamp        *time.Time     `json:"timestamp,omitempty"`
}

// AlertFilter - 목록 조회 필터
type AlertFilter struct {
	HostName    string
	ServiceName string
	Status      string
	Skip        int
	Limit       int
}

type AlertListResponse struct {
	Alerts []Alert `json:"alerts"`
	Total  int     `json:"total"`
	Skip   int     `json:"skip"`
	Limit  int     `json:"limit"`
}

type UngroupedAlertsResponse struct {
	UngroupedAlerts []Alert `json:"ungrouped_alerts"`
	Count           int     `json:"count"`
}

// BatchIngestError - 배치 수집 중 개별 항목 실패 기록
type BatchIngestError struct {
	Index int                `json:"index"`
	Error string             `json:"error"`
	Alert IngestAlertRequest `json:"alert_data"`
}

type BatchIngestResponse struct {
	CreatedAlerts   []Alert            `json:"created_alerts"`
	SuccessfulCount int                `json:"successful_count"`
	Errors          []BatchIngestError `json:"errors"`
	ErrorCount      int                `json:"error_count"`
}

// AlertStatsResponse - 최근 알림 통계 요약
type AlertStatsResponse struct {
	TotalAlerts          int            `json:"total_alerts"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	StatusDistribution   map[string]int `json:"status_distribution"`
	TopHosts             map[string]int `json:"top_hosts"`
	TopServices          map[string]int `json:"top_services"`
}
