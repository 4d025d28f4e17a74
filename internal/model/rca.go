// RCA 리포트 및 유사 인시던트 검색 결과 구조체 정의

package model

import "time"

// SimilarIncident - 지식 베이스 유사도 검색 결과 한 건
// SimilarityScore = 1 - (벡터 코사인 거리)
type SimilarIncident struct {
	Document        string         `json:"document"`
	Metadata        map[string]any `json:"metadata"`
	SimilarityScore float64        `json:"similarity_score"`
}

// SimilarIncidentRef - 리포트에 남기는 유사 인시던트 요약 (문서 본문 제외)
type SimilarIncidentRef struct {
	SimilarityScore float64        `json:"similarity_score"`
	Metadata        map[string]any `json:"metadata"`
}

type TimeSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IncidentSummary - 리포트 헤더 (현재 인시던트 요약)
type IncidentSummary struct {
	Host                 string         `json:"host"`
	Service              string         `json:"service"`
	AlertCount           int            `json:"alert_count"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	TimeSpan             *TimeSpan      `json:"time_span,omitempty"`
}

// AnalyzedAlert - 리포트에 포함되는 분석 대상 알림 요약
type AnalyzedAlert struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Severity  string `json:"severity"`
	Timestamp string `json:"timestamp"`
}

// RCAReport - 구조화된 RCA 리포트
// 그룹의 rca_content 컬럼에 JSON으로 직렬화되어 저장됨
type RCAReport struct {
	GroupID               string               `json:"group_id"`
	GeneratedAt           string               `json:"generated_at"`
	IncidentSummary       IncidentSummary      `json:"incident_summary"`
	SimilarIncidentsFound int                  `json:"similar_incidents_found"`
	SimilarIncidents      []SimilarIncidentRef `json:"similar_incidents"`
	RCAAnalysis           string               `json:"rca_analysis"`
	AlertsAnalyzed        []AnalyzedAlert      `json:"alerts_analyzed"`
	Status                string               `json:"status"`
	Error                 string               `json:"error,omitempty"`
}

type RCAStatusResponse struct {
	GroupID       string     `json:"group_id"`
	RCAStatus     string     `json:"rca_status"`
	HasRCAContent bool       `json:"has_rca_content"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

type RCAAcceptedResponse struct {
	Message   string `json:"message"`
	GroupID   string `json:"group_id"`
	RCAStatus string `json:"rca_status"`
}

type QuickAnalysisResponse struct {
	GroupID     string `json:"group_id"`
	Analysis    string `json:"analysis"`
	GeneratedAt string `json:"generated_at"`
}

type SimilarIncidentsResponse struct {
	Query      string            `json:"query"`
	Incidents  []SimilarIncident `json:"incidents"`
	TotalFound int               `json:"total_found"`
}

type SearchIncidentsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// CustomRCARequest - DB에 저장되지 않은 알림 목록에 대한 ad-hoc RCA 요청
type CustomRCARequest struct {
	Alerts []IngestAlertRequest `json:"alerts"`
}

type KnowledgeStatsResponse struct {
	TotalDocuments int64  `json:"total_documents"`
	CollectionName string `json:"collection_name"`
}

type RebuildResponse struct {
	Message        string `json:"message"`
	AlertsAdded    int    `json:"alerts_added"`
	GroupsAdded    int    `json:"groups_added"`
	TotalDocuments int    `json:"total_documents"`
}
