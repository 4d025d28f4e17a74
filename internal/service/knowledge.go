// 지식 베이스 서비스 정의
//
// 역할:
//   - 알림/그룹을 텍스트 문서로 직렬화해 임베딩 후 벡터 저장소에 upsert (인덱싱)
//   - 자연어 쿼리 임베딩으로 유사 인시던트 검색 (검색)
//
// 문서 id는 "alert_{id}" / "group_{id}" 결정적 키라 재인덱싱이 중복을 만들지 않음
// 그룹 문서는 상태 변화에 따라 재인덱싱으로 갱신되며, 삭제된 그룹의 기존 문서도
// 과거 인시던트 이력으로서 검색 대상에 남음

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/alert-rca/backend/internal/model"
)

const knowledgeCollectionName = "incident_knowledge_base"

// knowledgeStore - 벡터 저장소 연산
type knowledgeStore interface {
	UpsertKnowledgeDocument(ctx context.Context, id, docType, document string, embedding []float32, metadata map[string]any) error
	QueryNearestDocuments(ctx context.Context, embedding []float32, limit int) ([]model.KnowledgeHit, error)
	CountKnowledgeDocuments(ctx context.Context) (int64, error)
	ResetKnowledge(ctx context.Context) error
}

// embeddingClient - 텍스트 임베딩 백엔드
type embeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// rebuildSource - 전체 재인덱싱에 필요한 원본 데이터 조회
type rebuildSource interface {
	ListAlerts(ctx context.Context, filter model.AlertFilter) ([]model.Alert, error)
	ListGroups(ctx context.Context, status string, skip, limit int) ([]model.AlertGroup, error)
	GetAlertsByGroupID(ctx context.Context, groupID string) ([]model.Alert, error)
}

type KnowledgeService struct {
	store    knowledgeStore
	embedder embeddingClient
	source   rebuildSource

	similarityThreshold float64
	topK                int
	retrievalTimeout    time.Duration
}

func NewKnowledgeService(store knowledgeStore, embedder embeddingClient, source rebuildSource, threshold float64, topK int, retrievalTimeout time.Duration) *KnowledgeService {
	if topK <= 0 {
		topK = 5
	}
	if retrievalTimeout <= 0 {
		retrievalTimeout = 15 * time.Second
	}
	return &KnowledgeService{
		store:               store,
		embedder:            embedder,
		source:              source,
		similarityThreshold: threshold,
		topK:                topK,
		retrievalTimeout:    retrievalTimeout,
	}
}

// IndexAlert - 알림 한 건을 지식 베이스에 upsert
func (s *KnowledgeService) IndexAlert(ctx context.Context, alert model.Alert) error {
	document := buildAlertDocument(alert)
	embedding, err := s.embedder.EmbedText(ctx, document)
	if err != nil {
		return fmt.Errorf("embed alert %s: %w", alert.ID, err)
	}

	metadata := map[string]any{
		"type":              "alert",
		"alert_id":          alert.ID,
		"host_name":         alert.HostName,
		"service_name":      alert.ServiceName,
		"alert_name":        alert.AlertName,
		"severity":          alert.Severity,
		"monitoring_system": alert.MonitoringSystem,
		"timestamp":         alert.Timestamp.UTC().Format(time.RFC3339),
	}

	id := fmt.Sprintf("alert_%s", alert.ID)
	if err := s.store.UpsertKnowledgeDocument(ctx, id, "alert", document, embedding, metadata); err != nil {
		return fmt.Errorf("upsert alert document %s: %w", id, err)
	}
	return nil
}

// IndexGroup - 그룹 한 건을 소속 알림 요약과 함께 upsert
func (s *KnowledgeService) IndexGroup(ctx context.Context, group model.AlertGroup, alerts []model.Alert) error {
	document := buildGroupDocument(group, alerts)
	embedding, err := s.embedder.EmbedText(ctx, document)
	if err != nil {
		return fmt.Errorf("embed group %s: %w", group.ID, err)
	}

	summaryJSON, _ := json.Marshal(group.SeveritySummary)
	metadata := map[string]any{
		"type":             "group",
		"group_id":         group.ID,
		"host_name":        group.HostName,
		"service_name":     group.ServiceName,
		"alert_count":      group.AlertCount,
		"severity_summary": string(summaryJSON),
		"timestamp":        group.UpdatedAt.UTC().Format(time.RFC3339),
	}

	id := fmt.Sprintf("group_%s", group.ID)
	if err := s.store.UpsertKnowledgeDocument(ctx, id, "group", document, embedding, metadata); err != nil {
		return fmt.Errorf("upsert group document %s: %w", id, err)
	}
	return nil
}

// SearchSimilarIncidents - 쿼리 텍스트로 유사 인시던트 검색
// similarity = 1 - cosine distance, 임계값 미만은 버림
// limit <= 0 이면 기본 top_k 사용
func (s *KnowledgeService) SearchSimilarIncidents(ctx context.Context, query string, limit int) ([]model.SimilarIncident, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrValidation)
	}
	if limit <= 0 {
		limit = s.topK
	}

	ctx, cancel := context.WithTimeout(ctx, s.retrievalTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.QueryNearestDocuments(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("knowledge base query: %w", err)
	}

	incidents := []model.SimilarIncident{}
	for _, hit := range hits {
		similarity := 1 - hit.Distance
		if similarity < s.similarityThreshold {
			continue
		}
		incidents = append(incidents, model.SimilarIncident{
			Document:        hit.Document,
			Metadata:        hit.Metadata,
			SimilarityScore: similarity,
		})
	}
	return incidents, nil
}

// Stats - 지식 베이스 현황
func (s *KnowledgeService) Stats(ctx context.Context) (*model.KnowledgeStatsResponse, error) {
	count, err := s.store.CountKnowledgeDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return &model.KnowledgeStatsResponse{
		TotalDocuments: count,
		CollectionName: knowledgeCollectionName,
	}, nil
}

// Rebuild - 저장된 알림/그룹 전체를 다시 인덱싱
// 개별 문서 실패는 기록 후 건너뜀, 초기화 실패만 전체 실패로 처리
func (s *KnowledgeService) Rebuild(ctx context.Context) (*model.RebuildResponse, error) {
	if err := s.store.ResetKnowledge(ctx); err != nil {
		return nil, fmt.Errorf("reset knowledge base: %w", err)
	}

	alerts, err := s.source.ListAlerts(ctx, model.AlertFilter{Limit: 10000})
	if err != nil {
		return nil, err
	}

	alertsAdded := 0
	for _, alert := range alerts {
		if err := s.IndexAlert(ctx, alert); err != nil {
			log.Printf("Warning: rebuild skipped alert %s: %v", alert.ID, err)
			continue
		}
		alertsAdded++
	}

	groups, err := s.source.ListGroups(ctx, "", 0, 1000)
	if err != nil {
		return nil, err
	}

	groupsAdded := 0
	for _, group := range groups {
		members, err := s.source.GetAlertsByGroupID(ctx, group.ID)
		if err != nil {
			log.Printf("Warning: rebuild skipped group %s: %v", group.ID, err)
			continue
		}
		if len(members) == 0 {
			continue
		}
		if err := s.IndexGroup(ctx, group, members); err != nil {
			log.Printf("Warning: rebuild skipped group %s: %v", group.ID, err)
			continue
		}
		groupsAdded++
	}

	log.Printf("Knowledge base rebuilt: %d alerts, %d groups", alertsAdded, groupsAdded)
	return &model.RebuildResponse{
		Message:        "Knowledge base rebuilt successfully",
		AlertsAdded:    alertsAdded,
		GroupsAdded:    groupsAdded,
		TotalDocuments: alertsAdded + groupsAdded,
	}, nil
}

// buildAlertDocument - 알림 임베딩용 텍스트 직렬화
func buildAlertDocument(alert model.Alert) string {
	parts := []string{
		fmt.Sprintf("Alert: %s", alert.AlertName),
		fmt.Sprintf("Host: %s", alert.HostName),
		fmt.Sprintf("Service: %s", alert.ServiceName),
		fmt.Sprintf("Severity: %s", alert.Severity),
		fmt.Sprintf("Monitoring System: %s", alert.MonitoringSystem),
		fmt.Sprintf("Message: %s", alert.Message),
	}
	if len(alert.Details) > 0 {
		details, _ := json.Marshal(alert.Details)
		parts = append(parts, fmt.Sprintf("Details: %s", details))
	}
	return strings.Join(parts, " | ")
}

// buildGroupDocument - 그룹 임베딩용 텍스트 직렬화
// 멤버 전체 대신 앞쪽 메시지 3건만 샘플로 포함
func buildGroupDocument(group model.AlertGroup, alerts []model.Alert) string {
	parts := []string{
		fmt.Sprintf("Incident Group: %s", group.Name),
		fmt.Sprintf("Host: %s", group.HostName),
		fmt.Sprintf("Service: %s", group.ServiceName),
		fmt.Sprintf("Alert Count: %d", group.AlertCount),
	}
	for severity, count := range group.SeveritySummary {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", severity, count))
		}
	}
	if messages := sampleMessages(alerts, 3); len(messages) > 0 {
		parts = append(parts, fmt.Sprintf("Sample Messages: %s", strings.Join(messages, " ; ")))
	}
	return strings.Join(parts, " | ")
}

// buildSearchQuery - 그룹 컨텍스트에서 유사 인시던트 검색 쿼리 구성
// host/service + 대표 알림명 3개 + critical/high 심각도 토큰
func buildSearchQuery(group model.AlertGroup, alerts []model.Alert) string {
	parts := []string{
		"host " + group.HostName,
		"service " + group.ServiceName,
	}
	parts = append(parts, distinctAlertNames(alerts, 3)...)

	for _, severity := range []string{model.SeverityCritical, model.SeverityHigh} {
		if group.SeveritySummary[severity] > 0 {
			parts = append(parts, severity)
		}
	}
	return strings.Join(parts, " ")
}

// sampleMessages - 앞쪽 max건의 알림 메시지 (빈 메시지는 건너뜀)
func sampleMessages(alerts []model.Alert, max int) []string {
	var messages []string
	for _, a := range alerts {
		if strings.TrimSpace(a.Message) == "" {
			continue
		}
		messages = append(messages, a.Message)
		if len(messages) >= max {
			break
		}
	}
	return messages
}

// distinctAlertNames - 등장 순서를 유지한 중복 제거 알림명 목록
func distinctAlertNames(alerts []model.Alert, max int) []string {
	seen := map[string]bool{}
	var names []string
	for _, a := range alerts {
		if seen[a.AlertName] {
			continue
		}
		seen[a.AlertName] = true
		names = append(names, a.AlertName)
		if len(names) >= max {
			break
		}
	}
	return names
}
