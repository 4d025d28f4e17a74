package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alert-rca/backend/internal/model"
)

type fakeGroupingStore struct {
	mu     sync.Mutex
	alerts map[string]model.Alert
	order  []string
	groups map[string]model.AlertGroup
}

func newFakeGroupingStore() *fakeGroupingStore {
	return &fakeGroupingStore{
		alerts: map[string]model.Alert{},
		groups: map[string]model.AlertGroup{},
	}
}

func (f *fakeGroupingStore) addAlert(id, host, service, severity string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts[id] = model.Alert{
		ID: id, HostName: host, ServiceName: service,
		AlertName: "test-alert", Severity: severity,
		Status: model.AlertStatusActive, Timestamp: time.Now().UTC(),
	}
	f.order = append(f.order, id)
}

func (f *fakeGroupingStore) GetUngroupedAlerts(ctx context.Context) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Alert
	for _, id := range f.order {
		if a := f.alerts[id]; a.GroupID == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeGroupingStore) GetAlertsByGroupID(ctx context.Context, groupID string) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Alert
	for _, id := range f.order {
		if a := f.alerts[id]; a.GroupID != nil && *a.GroupID == groupID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeGroupingStore) UpdateAlertGroup(ctx context.Context, alertID string, groupID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.alerts[alertID]
	a.GroupID = groupID
	f.alerts[alertID] = a
	return nil
}

func (f *fakeGroupingStore) UngroupAlertsByGroupID(ctx context.Context, groupID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, a := range f.alerts {
		if a.GroupID != nil && *a.GroupID == groupID {
			a.GroupID = nil
			f.alerts[id] = a
			count++
		}
	}
	return count, nil
}

func (f *fakeGroupingStore) CreateGroup(ctx context.Context, group model.AlertGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups[group.ID] = group
	return nil
}

func (f *fakeGroupingStore) GetGroup(ctx context.Context, groupID string) (*model.AlertGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return nil, errNoRowsTest
	}
	return &g, nil
}

func (f *fakeGroupingStore) GetGroupByKey(ctx context.Context, groupKey string) (*model.AlertGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.GroupKey == groupKey && g.Status != model.GroupStatusDeleted {
			return &g, nil
		}
	}
	return nil, errNoRowsTest
}

func (f *fakeGroupingStore) ListGroups(ctx context.Context, status string, skip, limit int) ([]model.AlertGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AlertGroup
	for _, g := range f.groups {
		if status == "" || g.Status == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupingStore) UpdateGroupStats(ctx context.Context, groupID string, alertCount int, severitySummary map[string]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.groups[groupID]
	g.AlertCount = alertCount
	g.SeveritySummary = severitySummary
	f.groups[groupID] = g
	return nil
}

func (f *fakeGroupingStore) UpdateGroupStatus(ctx context.Context, groupID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.groups[groupID]
	g.Status = status
	f.groups[groupID] = g
	return nil
}

type noopGroupIndexer struct{}

func (noopGroupIndexer) IndexGroup(ctx context.Context, group model.AlertGroup, alerts []model.Alert) error {
	return nil
}

func newGroupingService(store *fakeGroupingStore) *GroupingService {
	return NewGroupingService(store, store, noopGroupIndexer{}, isNoRowsTest)
}

func TestGroupingPartitionsByHostAndService(t *testing.T) {
	store := newFakeGroupingStore()
	store.addAlert("a1", "web-01", "nginx", "critical")
	store.addAlert("a2", "web-01", "nginx", "high")
	store.addAlert("a3", "db-01", "postgres", "critical")

	resp, err := newGroupingService(store).CreateGroupsFromUngroupedAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalCreated != 2 {
		t.Fatalf("expected 2 groups, got %d", resp.TotalCreated)
	}

	for _, g := range resp.CreatedGroups {
		if g.GroupKey == "web-01:nginx" {
			if g.AlertCount != 2 {
				t.Fatalf("expected 2 alerts in web group, got %d", g.AlertCount)
			}
			if g.SeveritySummary["critical"] != 1 || g.SeveritySummary["high"] != 1 {
				t.Fatalf("wrong severity summary: %v", g.SeveritySummary)
			}
		}
	}
}

func TestGroupingIsIdempotent(t *testing.T) {
	store := newFakeGroupingStore()
	store.addAlert("a1", "web-01", "nginx", "critical")

	svc := newGroupingService(store)
	first, err := svc.CreateGroupsFromUngroupedAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalCreated != 1 {
		t.Fatalf("expected 1 group, got %d", first.TotalCreated)
	}

	second, err := svc.CreateGroupsFromUngroupedAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.TotalCreated != 0 {
		t.Fatalf("second pass must create nothing, got %d", second.TotalCreated)
	}
}

func TestGroupingExtendsExistingGroup(t *testing.T) {
	store := newFakeGroupingStore()
	store.addAlert("a1", "web-01", "nginx", "critical")

	svc := newGroupingService(store)
	if _, err := svc.CreateGroupsFromUngroupedAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.addAlert("a2", "WEB-01", "NGINX", "low")
	resp, err := svc.CreateGroupsFromUngroupedAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalCreated != 0 {
		t.Fatalf("expected reuse of existing group, created %d", resp.TotalCreated)
	}

	// 키는 대소문자 무관, 통계는 전체 멤버 기준으로 재계산됨
	groups, _ := store.ListGroups(context.Background(), "", 0, 100)
	if len(groups) != 1 {
		t.Fatalf("expected single group, got %d", len(groups))
	}
	if groups[0].AlertCount != 2 {
		t.Fatalf("expected alert_count 2, got %d", groups[0].AlertCount)
	}
	if groups[0].SeveritySummary["critical"] != 1 || groups[0].SeveritySummary["low"] != 1 {
		t.Fatalf("summary not recomputed: %v", groups[0].SeveritySummary)
	}
}

func TestDeleteGroupReleasesAlerts(t *testing.T) {
	store := newFakeGroupingStore()
	store.addAlert("a1", "web-01", "nginx", "critical")
	store.addAlert("a2", "web-01", "nginx", "high")

	svc := newGroupingService(store)
	resp, err := svc.CreateGroupsFromUngroupedAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groupID := resp.CreatedGroups[0].ID

	deleted, err := svc.DeleteGroup(context.Background(), groupID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.UngroupedAlerts != 2 {
		t.Fatalf("expected 2 released alerts, got %d", deleted.UngroupedAlerts)
	}

	ungrouped, _ := store.GetUngroupedAlerts(context.Background())
	if len(ungrouped) != 2 {
		t.Fatalf("alerts must be back in ungrouped pool, got %d", len(ungrouped))
	}

	// 삭제된 그룹 재조회는 not found
	if _, err := svc.DeleteGroup(context.Background(), groupID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted group, got %v", err)
	}

	// 삭제 후 같은 키로 다시 그룹핑하면 새 그룹이 생김
	regrouped, err := svc.CreateGroupsFromUngroupedAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if regrouped.TotalCreated != 1 {
		t.Fatalf("expected new group after delete, got %d", regrouped.TotalCreated)
	}
	if regrouped.CreatedGroups[0].ID == groupID {
		t.Fatalf("new group must have a fresh id")
	}
}

func TestDeleteGroupNotFound(t *testing.T) {
	svc := newGroupingService(newFakeGroupingStore())
	if _, err := svc.DeleteGroup(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
