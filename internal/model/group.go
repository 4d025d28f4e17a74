// AlertGroup 도메인 모델 정의
// 그룹 키(lower(host):lower(service))로 동일 호스트/서비스 알림을 하나의 인시던트로 묶음

package model

import (
	"strings"
	"time"
)

// 그룹 상태
const (
	GroupStatusActive  = "active"
	GroupStatusDeleted = "deleted"
)

// RCA 생성 상태 (그룹 상태와 독립적인 상태 머신)
const (
	RCAStatusPending    = "pending"
	RCAStatusGenerating = "generating"
	RCAStatusCompleted  = "completed"
	RCAStatusFailed     = "failed"
)

// AlertGroup - 알림 그룹 레코드
// AlertCount는 항상 이 그룹을 참조하는 알림 수와 일치해야 함
type AlertGroup struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	HostName        string         `json:"host_name"`
	ServiceName     string         `json:"service_name"`
	GroupKey        string         `json:"group_key"`
	AlertCount      int            `json:"alert_count"`
	SeveritySummary map[string]int `json:"severity_summary"`
	Status          string         `json:"status"`
	RCAStatus       string         `json:"rca_status"`
	RCAContent      string         `json:"rca_content,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// 목록/상세 조회 시 선택적으로 포함
	Alerts []Alert `json:"alerts,omitempty"`
}

// GenerateGroupKey - host와 service로 그룹 키 생성
// 소문자 "{host}:{service}" 형태, non-deleted 그룹에 대해 유일
func GenerateGroupKey(hostName, serviceName string) string {
	return strings.ToLower(hostName + ":" + serviceName)
}

type GroupListResponse struct {
	Groups []AlertGroup `json:"groups"`
	Total  int          `json:"total"`
	Skip   int          `json:"skip"`
	Limit  int          `json:"limit"`
}

type GroupCreationResponse struct {
	CreatedGroups []AlertGroup `json:"created_groups"`
	TotalCreated  int          `json:"total_created"`
	Message       string       `json:"message"`
}

type GroupDeleteResponse struct {
	Message         string `json:"message"`
	UngroupedAlerts int    `json:"ungrouped_alerts"`
}

// GroupStatsResponse - 그룹 통계 요약
type GroupStatsResponse struct {
	TotalGroups          int            `json:"total_groups"`
	TotalAlertsInGroups  int            `json:"total_alerts_in_groups"`
	AvgAlertsPerGroup    float64        `json:"average_alerts_per_group"`
	StatusDistribution   map[string]int `json:"status_distribution"`
	RCAStatusDistribution map[string]int `json:"rca_status_distribution"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
}
