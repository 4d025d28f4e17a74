// RCA(근본 원인 분석) 오케스트레이션 정의
//
// 상태 머신: pending -> generating -> completed | failed
// 흐름:
//  1. 그룹/알림 로드, 완료된 리포트가 있으면 캐시 반환 (force 제외)
//  2. generating 선점 (조건부 UPDATE라 동시 요청 중 하나만 진입)
//  3. 유사 인시던트 검색 -> 컨텍스트 조립(길이 제한) -> 프롬프트 -> 생성 호출
//  4. 구조화 리포트를 JSON으로 rca_content에 저장, 상태 갱신
//
// 검색 실패는 빈 결과로 강등하고 생성은 계속함. 생성 실패만 failed로 기록

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alert-rca/backend/internal/model"
)

const truncationMarker = "... [truncated]"

// rcaGroupStore - RCA 상태 전이에 필요한 그룹 저장소 연산
type rcaGroupStore interface {
	GetGroup(ctx context.Context, groupID string) (*model.AlertGroup, error)
	UpdateGroupRCA(ctx context.Context, groupID, content, status string) error
	MarkGroupRCAGenerating(ctx context.Context, groupID string) (bool, error)
	ForceGroupRCAGenerating(ctx context.Context, groupID string) error
}

// rcaAlertStore - 분석 대상 알림 조회
type rcaAlertStore interface {
	GetAlertsByGroupID(ctx context.Context, groupID string) ([]model.Alert, error)
}

// similaritySearcher - 유사 인시던트 검색 (KnowledgeService가 구현)
type similaritySearcher interface {
	SearchSimilarIncidents(ctx context.Context, query string, limit int) ([]model.SimilarIncident, error)
}

// generationClient - 텍스트 생성 백엔드
type generationClient interface {
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)
}

type RCAService struct {
	groups    rcaGroupStore
	alerts    rcaAlertStore
	retriever similaritySearcher
	generator generationClient
	noRows    func(error) bool

	maxContextLength  int
	topKSimilar       int
	generationTimeout time.Duration
}

func NewRCAService(groups rcaGroupStore, alerts rcaAlertStore, retriever similaritySearcher, generator generationClient, noRows func(error) bool, maxContextLength, topKSimilar int, generationTimeout time.Duration) *RCAService {
	if maxContextLength <= 0 {
		maxContextLength = 4000
	}
	if topKSimilar <= 0 {
		topKSimilar = 5
	}
	if generationTimeout <= 0 {
		generationTimeout = 120 * time.Second
	}
	return &RCAService{
		groups:            groups,
		alerts:            alerts,
		retriever:         retriever,
		generator:         generator,
		noRows:            noRows,
		maxContextLength:  maxContextLength,
		topKSimilar:       topKSimilar,
		generationTimeout: generationTimeout,
	}
}

// GenerateOutcome - 비동기 생성 요청 결과
// Started=false이면 기존 완료 리포트를 그대로 반환한 것
type GenerateOutcome struct {
	Started      bool
	CachedReport *model.RCAReport
}

// StartGeneration - 그룹 RCA 생성을 백그라운드로 시작
// 완료된 리포트가 있으면 force가 아닌 한 생성 없이 캐시를 반환
// generating 선점에 실패하면 ErrRCAInProgress
func (s *RCAService) StartGeneration(ctx context.Context, groupID string, force bool) (*GenerateOutcome, error) {
	group, alerts, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !force && group.RCAStatus == model.RCAStatusCompleted && group.RCAContent != "" {
		log.Printf("RCA for group %s already completed, returning cached report", groupID)
		return &GenerateOutcome{CachedReport: parseStoredReport(group)}, nil
	}

	if force {
		if err := s.groups.ForceGroupRCAGenerating(ctx, groupID); err != nil {
			return nil, err
		}
	} else {
		claimed, err := s.groups.MarkGroupRCAGenerating(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, fmt.Errorf("%w: group %s", ErrRCAInProgress, groupID)
		}
	}

	// 요청 컨텍스트와 분리된 백그라운드 실행
	go s.runGeneration(context.Background(), *group, alerts)
	return &GenerateOutcome{Started: true}, nil
}

// GenerateSync - 동기 생성 (조회 경로에서 리포트가 없을 때 사용)
func (s *RCAService) GenerateSync(ctx context.Context, groupID string, force bool) (*model.RCAReport, error) {
	group, alerts, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !force && group.RCAStatus == model.RCAStatusCompleted && group.RCAContent != "" {
		return parseStoredReport(group), nil
	}

	if force {
		if err := s.groups.ForceGroupRCAGenerating(ctx, groupID); err != nil {
			return nil, err
		}
	} else {
		claimed, err := s.groups.MarkGroupRCAGenerating(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, fmt.Errorf("%w: group %s", ErrRCAInProgress, groupID)
		}
	}

	// 클라이언트가 끊겨도 생성과 상태 전이는 끝까지 진행해야 함
	// 요청 컨텍스트로 저장하면 실패 기록조차 못 해 generating에 갇힘
	bg := context.Background()
	report := s.generateReport(bg, *group, alerts)
	s.persistReport(bg, group.ID, report)
	return &report, nil
}

// Status - RCA 생성 상태 조회
func (s *RCAService) Status(ctx context.Context, groupID string) (*model.RCAStatusResponse, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if s.noRows(err) {
			return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
		}
		return nil, err
	}

	updated := group.UpdatedAt
	return &model.RCAStatusResponse{
		GroupID:       group.ID,
		RCAStatus:     group.RCAStatus,
		HasRCAContent: group.RCAContent != "",
		LastUpdated:   &updated,
	}, nil
}

// GroupSearchQuery - 그룹의 유사 인시던트 검색 쿼리 텍스트
func (s *RCAService) GroupSearchQuery(ctx context.Context, groupID string) (string, error) {
	group, alerts, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return "", err
	}
	return buildSearchQuery(*group, alerts), nil
}

// QuickAnalysis - 검색/저장 없이 짧은 즉석 분석만 생성
func (s *RCAService) QuickAnalysis(ctx context.Context, groupID string) (*model.QuickAnalysisResponse, error) {
	group, alerts, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	prompt := buildQuickPrompt(*group, alerts)

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()
	analysis, err := s.generator.GenerateAnalysis(genCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("quick analysis generation failed: %w", err)
	}

	return &model.QuickAnalysisResponse{
		GroupID:     groupID,
		Analysis:    analysis,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// CustomRCA - DB에 저장되지 않은 알림 목록으로 즉석 리포트 생성
// 그룹은 첫 알림의 host/service로 임시 합성, 결과는 어디에도 저장하지 않음
func (s *RCAService) CustomRCA(ctx context.Context, req model.CustomRCARequest) (*model.RCAReport, error) {
	if len(req.Alerts) == 0 {
		return nil, fmt.Errorf("%w: alerts must not be empty", ErrValidation)
	}

	alerts := make([]model.Alert, 0, len(req.Alerts))
	for _, r := range req.Alerts {
		if strings.TrimSpace(r.Severity) == "" {
			r.Severity = model.SeverityMedium
		}
		if strings.TrimSpace(r.AlertName) == "" {
			r.AlertName = "unknown alert"
		}
		alerts = append(alerts, normalizeAlert(r))
	}

	first := alerts[0]
	now := time.Now().UTC()
	group := model.AlertGroup{
		ID:              "custom_" + uuid.NewString(),
		Name:            fmt.Sprintf("%s - %s", first.HostName, first.ServiceName),
		HostName:        first.HostName,
		ServiceName:     first.ServiceName,
		GroupKey:        model.GenerateGroupKey(first.HostName, first.ServiceName),
		AlertCount:      len(alerts),
		SeveritySummary: severitySummary(alerts),
		Status:          model.GroupStatusActive,
		RCAStatus:       model.RCAStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	report := s.generateReport(ctx, group, alerts)
	return &report, nil
}

// loadGroup - 그룹과 소속 알림 로드, 빈 그룹은 분석 대상이 아님
func (s *RCAService) loadGroup(ctx context.Context, groupID string) (*model.AlertGroup, []model.Alert, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if s.noRows(err) {
			return nil, nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
		}
		return nil, nil, err
	}

	alerts, err := s.alerts.GetAlertsByGroupID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if len(alerts) == 0 {
		return nil, nil, fmt.Errorf("%w: group %s", ErrEmptyGroup, groupID)
	}
	return group, alerts, nil
}

// runGeneration - 백그라운드 생성 본체
func (s *RCAService) runGeneration(ctx context.Context, group model.AlertGroup, alerts []model.Alert) {
	log.Printf("RCA generation started for group %s", group.ID)
	report := s.generateReport(ctx, group, alerts)
	s.persistReport(ctx, group.ID, report)
	log.Printf("RCA generation finished for group %s (status=%s)", group.ID, report.Status)
}

// persistReport - 리포트 직렬화 및 상태 반영
// 실패 리포트는 에러 메시지를 rca_content에 남기고 failed로 기록
func (s *RCAService) persistReport(ctx context.Context, groupID string, report model.RCAReport) {
	if report.Status != model.RCAStatusCompleted {
		content := "Error: " + report.Error
		if err := s.groups.UpdateGroupRCA(ctx, groupID, content, model.RCAStatusFailed); err != nil {
			log.Printf("Error: failed to persist failed RCA for group %s: %v", groupID, err)
		}
		return
	}

	content, err := json.Marshal(report)
	if err != nil {
		log.Printf("Error: failed to serialize RCA report for group %s: %v", groupID, err)
		if err := s.groups.UpdateGroupRCA(ctx, groupID, "Error: report serialization failed", model.RCAStatusFailed); err != nil {
			log.Printf("Error: failed to persist failed RCA for group %s: %v", groupID, err)
		}
		return
	}

	if err := s.groups.UpdateGroupRCA(ctx, groupID, string(content), model.RCAStatusCompleted); err != nil {
		log.Printf("Error: failed to persist RCA report for group %s: %v", groupID, err)
	}
}

// generateReport - 검색 -> 컨텍스트 조립 -> 생성 -> 리포트 구조화
func (s *RCAService) generateReport(ctx context.Context, group model.AlertGroup, alerts []model.Alert) model.RCAReport {
	report := model.RCAReport{
		GroupID:     group.ID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		IncidentSummary: model.IncidentSummary{
			Host:                 group.HostName,
			Service:              group.ServiceName,
			AlertCount:           len(alerts),
			SeverityDistribution: severitySummary(alerts),
			TimeSpan:             alertTimeSpan(alerts),
		},
	}

	// 검색 실패는 치명적이지 않음 - 과거 사례 없이 진행
	query := buildSearchQuery(group, alerts)
	similar, err := s.retriever.SearchSimilarIncidents(ctx, query, s.topKSimilar)
	if err != nil {
		log.Printf("Warning: similar incident retrieval failed for group %s: %v", group.ID, err)
		similar = nil
	}

	report.SimilarIncidentsFound = len(similar)
	report.SimilarIncidents = topSimilarRefs(similar, 3)

	incidentContext := buildIncidentContext(group, alerts, similar, s.maxContextLength)
	prompt := buildRCAPrompt(incidentContext)

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()
	analysis, err := s.generator.GenerateAnalysis(genCtx, prompt)
	if err != nil {
		log.Printf("Error: RCA generation failed for group %s: %v", group.ID, err)
		report.Status = model.RCAStatusFailed
		report.Error = err.Error()
		return report
	}

	report.RCAAnalysis = analysis
	report.AlertsAnalyzed = analyzedAlerts(alerts)
	report.Status = model.RCAStatusCompleted
	return report
}

// parseStoredReport - rca_content의 JSON 리포트 역직렬화
// 구조화 이전 형식(평문)은 분석 텍스트로 감싸서 반환
func parseStoredReport(group *model.AlertGroup) *model.RCAReport {
	content := strings.TrimSpace(group.RCAContent)
	if strings.HasPrefix(content, "{") {
		var report model.RCAReport
		if err := json.Unmarshal([]byte(content), &report); err == nil {
			return &report
		}
	}
	return &model.RCAReport{
		GroupID:     group.ID,
		GeneratedAt: group.UpdatedAt.UTC().Format(time.RFC3339),
		RCAAnalysis: group.RCAContent,
		Status:      model.RCAStatusCompleted,
	}
}

// buildIncidentContext - 프롬프트에 넣을 인시던트 컨텍스트 조립
// 섹션 순서 고정, 알림 블록은 최대 5개, 유사 인시던트는 최대 3건
// 전체 길이가 maxLength를 넘으면 끝부분만 잘라냄
func buildIncidentContext(group model.AlertGroup, alerts []model.Alert, similar []model.SimilarIncident, maxLength int) string {
	var b strings.Builder

	b.WriteString("=== CURRENT INCIDENT ===\n")
	fmt.Fprintf(&b, "Host: %s\n", group.HostName)
	fmt.Fprintf(&b, "Service: %s\n", group.ServiceName)
	fmt.Fprintf(&b, "Total Alerts: %d\n", len(alerts))
	fmt.Fprintf(&b, "Severity Distribution: %s\n", formatSeveritySummary(severitySummary(alerts)))
	if span := alertTimeSpan(alerts); span != nil {
		fmt.Fprintf(&b, "Time Range: %s to %s\n", span.Start, span.End)
	}

	b.WriteString("\n=== ALERTS IN THIS INCIDENT ===\n")
	shown := alerts
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i, alert := range shown {
		fmt.Fprintf(&b, "\nAlert %d:\n", i+1)
		fmt.Fprintf(&b, "- Name: %s\n", alert.AlertName)
		fmt.Fprintf(&b, "- Severity: %s\n", alert.Severity)
		fmt.Fprintf(&b, "- Time: %s\n", alert.Timestamp.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "- Message: %s\n", alert.Message)
		if len(alert.Details) > 0 {
			details, _ := json.Marshal(alert.Details)
			fmt.Fprintf(&b, "- Details: %s\n", details)
		}
	}
	if len(alerts) > 5 {
		fmt.Fprintf(&b, "\n... and %d more alerts\n", len(alerts)-5)
	}

	if len(similar) > 0 {
		b.WriteString("\n=== SIMILAR PAST INCIDENTS ===\n")
		top := similar
		if len(top) > 3 {
			top = top[:3]
		}
		for i, incident := range top {
			fmt.Fprintf(&b, "\nSimilar Incident %d (similarity: %.2f):\n", i+1, incident.SimilarityScore)
			fmt.Fprintf(&b, "%s\n", incident.Document)
		}
	}

	return truncateContext(b.String(), maxLength)
}

// truncateContext - 컨텍스트 끝부분 절단
// 결과는 marker 포함 maxLength 이하를 보장함
func truncateContext(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= len(truncationMarker) {
		return s[:maxLength]
	}
	return s[:maxLength-len(truncationMarker)] + truncationMarker
}

// buildRCAPrompt - RCA 분석 프롬프트
// 출력 섹션 구조를 고정해 리포트 일관성 유지
func buildRCAPrompt(incidentContext string) string {
	return fmt.Sprintf(`You are an expert Site Reliability Engineer performing root cause analysis.

Analyze the following incident and provide a comprehensive root cause analysis.

%s

Provide your analysis in the following structure:

1. INCIDENT SUMMARY: Brief overview of what happened
2. TIMELINE: Sequence of events based on the alert timestamps
3. ROOT CAUSE ANALYSIS: Most likely root cause(s) based on the alert patterns
4. CONTRIBUTING FACTORS: Conditions that may have contributed to the incident
5. IMPACT ASSESSMENT: Affected services and severity of impact
6. IMMEDIATE ACTIONS: Steps to mitigate the incident right now
7. PREVENTIVE MEASURES: Changes to prevent recurrence
8. SIMILAR INCIDENT INSIGHTS: Lessons from similar past incidents, if any were provided

Base your analysis strictly on the provided alert data. If information is insufficient for any section, say so explicitly.`, incidentContext)
}

// buildQuickPrompt - 즉석 분석용 짧은 프롬프트
// 알림 전체 대신 앞쪽 메시지 3건만 샘플로 넣음
func buildQuickPrompt(group model.AlertGroup, alerts []model.Alert) string {
	messages := sampleMessages(alerts, 3)
	return fmt.Sprintf(`You are an SRE. Give a brief (3-5 sentence) initial assessment of this incident:

Host: %s
Service: %s
Alert Count: %d
Severity Distribution: %s
Sample Messages: %s

Focus on the most likely cause and the first thing to check.`,
		group.HostName, group.ServiceName, len(alerts),
		formatSeveritySummary(severitySummary(alerts)),
		strings.Join(messages, " ; "))
}

// alertTimeSpan - 알림 타임스탬프 범위 (최소~최대)
func alertTimeSpan(alerts []model.Alert) *model.TimeSpan {
	if len(alerts) == 0 {
		return nil
	}
	min, max := alerts[0].Timestamp, alerts[0].Timestamp
	for _, a := range alerts[1:] {
		if a.Timestamp.Before(min) {
			min = a.Timestamp
		}
		if a.Timestamp.After(max) {
			max = a.Timestamp
		}
	}
	return &model.TimeSpan{
		Start: min.UTC().Format(time.RFC3339),
		End:   max.UTC().Format(time.RFC3339),
	}
}

func analyzedAlerts(alerts []model.Alert) []model.AnalyzedAlert {
	analyzed := make([]model.AnalyzedAlert, 0, len(alerts))
	for _, a := range alerts {
		analyzed = append(analyzed, model.AnalyzedAlert{
			ID:        a.ID,
			Name:      a.AlertName,
			Severity:  a.Severity,
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return analyzed
}

func topSimilarRefs(similar []model.SimilarIncident, max int) []model.SimilarIncidentRef {
	refs := []model.SimilarIncidentRef{}
	for i, incident := range similar {
		if i >= max {
			break
		}
		refs = append(refs, model.SimilarIncidentRef{
			SimilarityScore: incident.SimilarityScore,
			Metadata:        incident.Metadata,
		})
	}
	return refs
}

// formatSeveritySummary - "critical: 2, high: 1" 형태, 심각도 순서 고정
func formatSeveritySummary(summary map[string]int) string {
	order := []string{
		model.SeverityCritical, model.SeverityHigh, model.SeverityMedium,
		model.SeverityLow, model.SeverityInfo,
	}
	var parts []string
	for _, severity := range order {
		if summary[severity] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", severity, summary[severity]))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
