// 알림 그룹핑 비즈니스 로직 정의
//
// 그룹핑 규칙: group_key = lower(host_name) + ":" + lower(service_name)
// 같은 키의 non-deleted 그룹이 있으면 재사용, 없으면 새로 생성
// 그룹 통계(alert_count, severity_summary)는 항상 현재 멤버 집합에서 재계산함

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/alert-rca/backend/internal/model"
)

// groupingAlertStore - 그룹핑에 필요한 알림 저장소 연산
type groupingAlertStore interface {
	GetUngroupedAlerts(ctx context.Context) ([]model.Alert, error)
	GetAlertsByGroupID(ctx context.Context, groupID string) ([]model.Alert, error)
	UpdateAlertGroup(ctx context.Context, alertID string, groupID *string) error
	UngroupAlertsByGroupID(ctx context.Context, groupID string) (int64, error)
}

// groupStore - 그룹 저장소 연산
type groupStore interface {
	CreateGroup(ctx context.Context, group model.AlertGroup) error
	GetGroup(ctx context.Context, groupID string) (*model.AlertGroup, error)
	GetGroupByKey(ctx context.Context, groupKey string) (*model.AlertGroup, error)
	ListGroups(ctx context.Context, status string, skip, limit int) ([]model.AlertGroup, error)
	UpdateGroupStats(ctx context.Context, groupID string, alertCount int, severitySummary map[string]int) error
	UpdateGroupStatus(ctx context.Context, groupID, status string) error
}

// groupIndexer - 그룹 문서 지식 베이스 인덱서
type groupIndexer interface {
	IndexGroup(ctx context.Context, group model.AlertGroup, alerts []model.Alert) error
}

type GroupingService struct {
	alerts  groupingAlertStore
	groups  groupStore
	indexer groupIndexer
	noRows  func(error) bool
}

func NewGroupingService(alerts groupingAlertStore, groups groupStore, indexer groupIndexer, noRows func(error) bool) *GroupingService {
	return &GroupingService{alerts: alerts, groups: groups, indexer: indexer, noRows: noRows}
}

// CreateGroupsFromUngroupedAlerts - 미그룹 알림 전체를 그룹핑
// 멱등: 미그룹 알림이 없으면 아무 것도 만들지 않음
func (s *GroupingService) CreateGroupsFromUngroupedAlerts(ctx context.Context) (*model.GroupCreationResponse, error) {
	ungrouped, err := s.alerts.GetUngroupedAlerts(ctx)
	if err != nil {
		return nil, err
	}

	resp := model.GroupCreationResponse{CreatedGroups: []model.AlertGroup{}}
	if len(ungrouped) == 0 {
		resp.Message = "No ungrouped alerts found"
		return &resp, nil
	}

	// 첫 등장 순서를 유지하며 키별로 분할
	partitions := map[string][]model.Alert{}
	var keyOrder []string
	for _, alert := range ungrouped {
		key := model.GenerateGroupKey(alert.HostName, alert.ServiceName)
		if _, seen := partitions[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		partitions[key] = append(partitions[key], alert)
	}

	created := map[string]bool{}
	for _, key := range keyOrder {
		members := partitions[key]

		group, err := s.groups.GetGroupByKey(ctx, key)
		if err != nil {
			if !s.noRows(err) {
				return nil, err
			}
			group, err = s.createGroup(ctx, key, members[0])
			if err != nil {
				return nil, err
			}
			created[group.ID] = true
		}

		for _, alert := range members {
			if err := s.alerts.UpdateAlertGroup(ctx, alert.ID, &group.ID); err != nil {
				return nil, err
			}
		}

		refreshed, err := s.refreshGroupStats(ctx, group)
		if err != nil {
			return nil, err
		}

		if created[group.ID] {
			resp.CreatedGroups = append(resp.CreatedGroups, *refreshed)
		}

		// 그룹 문서 인덱싱은 best-effort
		go func(g model.AlertGroup) {
			alerts, err := s.alerts.GetAlertsByGroupID(context.Background(), g.ID)
			if err != nil {
				log.Printf("Warning: failed to load alerts for group %s indexing: %v", g.ID, err)
				return
			}
			if err := s.indexer.IndexGroup(context.Background(), g, alerts); err != nil {
				log.Printf("Warning: failed to add group %s to knowledge base: %v", g.ID, err)
			}
		}(*refreshed)
	}

	resp.TotalCreated = len(resp.CreatedGroups)
	resp.Message = fmt.Sprintf("Created %d new groups from %d ungrouped alerts", resp.TotalCreated, len(ungrouped))
	log.Printf("Grouping pass finished: %d ungrouped alerts, %d new groups", len(ungrouped), resp.TotalCreated)
	return &resp, nil
}

// createGroup - 분할의 첫 알림으로 새 그룹 생성
func (s *GroupingService) createGroup(ctx context.Context, key string, first model.Alert) (*model.AlertGroup, error) {
	now := time.Now().UTC()
	group := model.AlertGroup{
		ID:              uuid.NewString(),
		Name:            fmt.Sprintf("%s - %s", first.HostName, first.ServiceName),
		HostName:        first.HostName,
		ServiceName:     first.ServiceName,
		GroupKey:        key,
		SeveritySummary: map[string]int{},
		Status:          model.GroupStatusActive,
		RCAStatus:       model.RCAStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	log.Printf("Created alert group %s (key=%s)", group.ID, key)
	return &group, nil
}

// refreshGroupStats - 현재 멤버 집합에서 통계를 다시 계산해 저장
func (s *GroupingService) refreshGroupStats(ctx context.Context, group *model.AlertGroup) (*model.AlertGroup, error) {
	members, err := s.alerts.GetAlertsByGroupID(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	summary := severitySummary(members)
	if err := s.groups.UpdateGroupStats(ctx, group.ID, len(members), summary); err != nil {
		return nil, err
	}

	updated := *group
	updated.AlertCount = len(members)
	updated.SeveritySummary = summary
	return &updated, nil
}

// GetGroups - 그룹 목록 조회 (updated_at 내림차순)
func (s *GroupingService) GetGroups(ctx context.Context, status string, skip, limit int) (*model.GroupListResponse, error) {
	if limit <= 0 {
		limit = 100
	}
	groups, err := s.groups.ListGroups(ctx, status, skip, limit)
	if err != nil {
		return nil, err
	}
	return &model.GroupListResponse{
		Groups: groups,
		Total:  len(groups),
		Skip:   skip,
		Limit:  limit,
	}, nil
}

// GetGroup - 그룹 상세 조회 (소속 알림 포함)
func (s *GroupingService) GetGroup(ctx context.Context, groupID string) (*model.AlertGroup, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if s.noRows(err) {
			return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
		}
		return nil, err
	}

	alerts, err := s.alerts.GetAlertsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Alerts = alerts
	return group, nil
}

// DeleteGroup - 소프트 삭제
// 멤버 알림의 그룹 참조를 해제하고 status만 deleted로 변경, 레코드는 감사용으로 유지
func (s *GroupingService) DeleteGroup(ctx context.Context, groupID string) (*model.GroupDeleteResponse, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if s.noRows(err) {
			return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
		}
		return nil, err
	}
	if group.Status == model.GroupStatusDeleted {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}

	released, err := s.alerts.UngroupAlertsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.groups.UpdateGroupStatus(ctx, groupID, model.GroupStatusDeleted); err != nil {
		return nil, err
	}

	log.Printf("Deleted group %s, ungrouped %d alerts", groupID, released)
	return &model.GroupDeleteResponse{
		Message:         fmt.Sprintf("Group %s deleted successfully", groupID),
		UngroupedAlerts: int(released),
	}, nil
}

// Stats - 전체 그룹 통계 요약
func (s *GroupingService) Stats(ctx context.Context) (*model.GroupStatsResponse, error) {
	groups, err := s.groups.ListGroups(ctx, "", 0, 1000)
	if err != nil {
		return nil, err
	}

	stats := model.GroupStatsResponse{
		TotalGroups:           len(groups),
		StatusDistribution:    map[string]int{},
		RCAStatusDistribution: map[string]int{},
		SeverityDistribution:  map[string]int{},
	}

	for _, g := range groups {
		stats.TotalAlertsInGroups += g.AlertCount
		stats.StatusDistribution[g.Status]++
		stats.RCAStatusDistribution[g.RCAStatus]++
		for severity, count := range g.SeveritySummary {
			stats.SeverityDistribution[severity] += count
		}
	}

	if len(groups) > 0 {
		stats.AvgAlertsPerGroup = float64(stats.TotalAlertsInGroups) / float64(len(groups))
	}
	return &stats, nil
}

// severitySummary - 알림 목록의 심각도별 건수 집계
func severitySummary(alerts []model.Alert) map[string]int {
	summary := map[string]int{}
	for _, a := range alerts {
		summary[a.Severity]++
	}
	return summary
}
