package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alert-rca/backend/internal/model"
)

var errNoRowsTest = errors.New("no rows")

func isNoRowsTest(err error) bool {
	return errors.Is(err, errNoRowsTest)
}

type fakeAlertStore struct {
	mu      sync.Mutex
	created []model.Alert
	alerts  map[string]model.Alert
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{alerts: map[string]model.Alert{}}
}

func (f *fakeAlertStore) CreateAlert(ctx context.Context, alert model.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, alert)
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeAlertStore) GetAlert(ctx context.Context, alertID string) (*model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok {
		return nil, errNoRowsTest
	}
	return &alert, nil
}

func (f *fakeAlertStore) ListAlerts(ctx context.Context, filter model.AlertFilter) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Alert{}, f.created...), nil
}

func (f *fakeAlertStore) GetUngroupedAlerts(ctx context.Context) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Alert
	for _, a := range f.created {
		if a.GroupID == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

type noopIndexer struct{}

func (noopIndexer) IndexAlert(ctx context.Context, alert model.Alert) error { return nil }

func validIngestRequest() model.IngestAlertRequest {
	return model.IngestAlertRequest{
		MonitoringSystem: "prometheus",
		HostName:         "Web-Server-01",
		ServiceName:      "Nginx",
		AlertName:        "High-CPU-Usage",
		Severity:         "CRITICAL",
		Message:          "CPU usage above 95%",
	}
}

func TestIngestNormalizesFields(t *testing.T) {
	store := newFakeAlertStore()
	svc := NewAlertService(store, noopIndexer{}, isNoRowsTest)

	alert, err := svc.Ingest(context.Background(), validIngestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if alert.HostName != "web-server-01" || alert.ServiceName != "nginx" {
		t.Fatalf("host/service not lowercased: %s / %s", alert.HostName, alert.ServiceName)
	}
	if alert.AlertName != "high-cpu-usage" || alert.Severity != "critical" {
		t.Fatalf("alert name/severity not lowercased: %s / %s", alert.AlertName, alert.Severity)
	}
	if alert.Status != model.AlertStatusActive {
		t.Fatalf("expected active status, got %s", alert.Status)
	}
	if alert.ID == "" || alert.Timestamp.IsZero() {
		t.Fatalf("id and timestamp must be populated")
	}
	if alert.GroupID != nil {
		t.Fatalf("new alert must be ungrouped")
	}
}

func TestIngestRejectsMissingField(t *testing.T) {
	svc := NewAlertService(newFakeAlertStore(), noopIndexer{}, isNoRowsTest)

	req := validIngestRequest()
	req.HostName = "   "
	if _, err := svc.Ingest(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIngestRejectsInvalidSeverity(t *testing.T) {
	store := newFakeAlertStore()
	svc := NewAlertService(store, noopIndexer{}, isNoRowsTest)

	req := validIngestRequest()
	req.Severity = "catastrophic"
	if _, err := svc.Ingest(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("rejected alert must not be stored")
	}
}

func TestIngestKeepsExplicitTimestamp(t *testing.T) {
	svc := NewAlertService(newFakeAlertStore(), noopIndexer{}, isNoRowsTest)

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	req := validIngestRequest()
	req.Timestamp = &ts

	alert, err := svc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alert.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp %v, got %v", ts, alert.Timestamp)
	}
}

func TestBatchIngestContinuesAfterFailure(t *testing.T) {
	store := newFakeAlertStore()
	svc := NewAlertService(store, noopIndexer{}, isNoRowsTest)

	bad := validIngestRequest()
	bad.Severity = "bogus"
	reqs := []model.IngestAlertRequest{validIngestRequest(), bad, validIngestRequest()}

	resp := svc.BatchIngest(context.Background(), reqs)
	if resp.SuccessfulCount != 2 || resp.ErrorCount != 1 {
		t.Fatalf("expected 2 created / 1 error, got %d / %d", resp.SuccessfulCount, resp.ErrorCount)
	}
	if resp.Errors[0].Index != 1 {
		t.Fatalf("expected failure at index 1, got %d", resp.Errors[0].Index)
	}
}

func TestGetAlertNotFound(t *testing.T) {
	svc := NewAlertService(newFakeAlertStore(), noopIndexer{}, isNoRowsTest)
	if _, err := svc.GetAlert(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
