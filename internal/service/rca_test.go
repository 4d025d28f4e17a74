package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alert-rca/backend/internal/model"
)

type fakeRCAGroupStore struct {
	mu       sync.Mutex
	group    *model.AlertGroup
	claimOK  bool
	honorCtx bool // true면 죽은 컨텍스트로 들어온 저장 호출을 거부
	saved    []string // 기록된 (content, status) 쌍의 status
	content  string
	generate int // Mark/Force 호출 횟수
}

func (f *fakeRCAGroupStore) GetGroup(ctx context.Context, groupID string) (*model.AlertGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.group == nil || f.group.ID != groupID {
		return nil, errNoRowsTest
	}
	g := *f.group
	return &g, nil
}

func (f *fakeRCAGroupStore) UpdateGroupRCA(ctx context.Context, groupID, content, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.honorCtx {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	f.content = content
	f.saved = append(f.saved, status)
	f.group.RCAContent = content
	f.group.RCAStatus = status
	return nil
}

func (f *fakeRCAGroupStore) MarkGroupRCAGenerating(ctx context.Context, groupID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generate++
	if !f.claimOK {
		return false, nil
	}
	f.group.RCAStatus = model.RCAStatusGenerating
	return true, nil
}

func (f *fakeRCAGroupStore) ForceGroupRCAGenerating(ctx context.Context, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generate++
	f.group.RCAStatus = model.RCAStatusGenerating
	return nil
}

type fakeRCAAlertStore struct {
	alerts []model.Alert
}

func (f *fakeRCAAlertStore) GetAlertsByGroupID(ctx context.Context, groupID string) ([]model.Alert, error) {
	return f.alerts, nil
}

type fakeSearcher struct {
	incidents []model.SimilarIncident
	err       error
}

func (f *fakeSearcher) SearchSimilarIncidents(ctx context.Context, query string, limit int) ([]model.SimilarIncident, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.incidents, nil
}

type fakeGenerator struct {
	mu     sync.Mutex
	text   string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testGroup() *model.AlertGroup {
	return &model.AlertGroup{
		ID: "g1", Name: "web-01 - nginx",
		HostName: "web-01", ServiceName: "nginx",
		GroupKey: "web-01:nginx", AlertCount: 2,
		SeveritySummary: map[string]int{"critical": 1, "high": 1},
		Status:          model.GroupStatusActive,
		RCAStatus:       model.RCAStatusPending,
		UpdatedAt:       time.Now().UTC(),
	}
}

func testAlerts() []model.Alert {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return []model.Alert{
		{ID: "a1", AlertName: "high-cpu", Severity: "critical", Message: "cpu 99%", Timestamp: base},
		{ID: "a2", AlertName: "oom-kill", Severity: "high", Message: "oom killer invoked", Timestamp: base.Add(5 * time.Minute)},
	}
}

// disconnectingGenerator - 생성 도중 요청 연결이 끊기는 상황 재현
// 호출 즉시 요청 컨텍스트를 취소하고, 자기 컨텍스트가 살아 있으면 결과를 반환
type disconnectingGenerator struct {
	disconnect context.CancelFunc
	text       string
}

func (g *disconnectingGenerator) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	g.disconnect()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.text, nil
}

func newRCATestService(groups *fakeRCAGroupStore, alerts []model.Alert, searcher *fakeSearcher, gen generationClient) *RCAService {
	return NewRCAService(groups, &fakeRCAAlertStore{alerts: alerts}, searcher, gen, isNoRowsTest, 4000, 5, time.Second)
}

func TestGenerateSyncProducesCompletedReport(t *testing.T) {
	groups := &fakeRCAGroupStore{group: testGroup(), claimOK: true}
	searcher := &fakeSearcher{incidents: []model.SimilarIncident{
		{Document: "past incident", Metadata: map[string]any{"group_id": "old"}, SimilarityScore: 0.8},
	}}
	gen := &fakeGenerator{text: "1. INCIDENT SUMMARY: nginx overloaded"}

	svc := newRCATestService(groups, testAlerts(), searcher, gen)
	report, err := svc.GenerateSync(context.Background(), "g1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Status != model.RCAStatusCompleted {
		t.Fatalf("expected completed, got %s", report.Status)
	}
	if report.RCAAnalysis == "" || report.SimilarIncidentsFound != 1 {
		t.Fatalf("report incomplete: %+v", report)
	}
	if report.IncidentSummary.Host != "web-01" || report.IncidentSummary.AlertCount != 2 {
		t.Fatalf("wrong incident summary: %+v", report.IncidentSummary)
	}
	if report.IncidentSummary.TimeSpan == nil || report.IncidentSummary.TimeSpan.Start >= report.IncidentSummary.TimeSpan.End {
		t.Fatalf("time span must cover alert range: %+v", report.IncidentSummary.TimeSpan)
	}
	if len(report.AlertsAnalyzed) != 2 {
		t.Fatalf("expected 2 analyzed alerts, got %d", len(report.AlertsAnalyzed))
	}

	// 저장된 내용은 JSON 리포트여야 함
	if groups.group.RCAStatus != model.RCAStatusCompleted {
		t.Fatalf("group status not updated: %s", groups.group.RCAStatus)
	}
	var stored model.RCAReport
	if err := json.Unmarshal([]byte(groups.content), &stored); err != nil {
		t.Fatalf("stored content is not a JSON report: %v", err)
	}
	if stored.GroupID != "g1" {
		t.Fatalf("stored report has wrong group id: %s", stored.GroupID)
	}
}

func TestGenerateSyncReturnsCachedReport(t *testing.T) {
	group := testGroup()
	cached := model.RCAReport{GroupID: "g1", RCAAnalysis: "cached analysis", Status: model.RCAStatusCompleted}
	content, _ := json.Marshal(cached)
	group.RCAStatus = model.RCAStatusCompleted
	group.RCAContent = string(content)

	groups := &fakeRCAGroupStore{group: group, claimOK: true}
	gen := &fakeGenerator{err: errors.New("must not be called")}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, gen)
	report, err := svc.GenerateSync(context.Background(), "g1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.RCAAnalysis != "cached analysis" {
		t.Fatalf("expected cached report, got %+v", report)
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not run for cached report")
	}
}

func TestGenerateSyncForceBypassesCache(t *testing.T) {
	group := testGroup()
	group.RCAStatus = model.RCAStatusCompleted
	group.RCAContent = `{"group_id":"g1","status":"completed","rca_analysis":"stale"}`

	groups := &fakeRCAGroupStore{group: group, claimOK: true}
	gen := &fakeGenerator{text: "fresh analysis"}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, gen)
	report, err := svc.GenerateSync(context.Background(), "g1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.RCAAnalysis != "fresh analysis" {
		t.Fatalf("force must regenerate, got %q", report.RCAAnalysis)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generation call, got %d", gen.calls)
	}
}

func TestGenerateSyncSurvivesClientDisconnect(t *testing.T) {
	groups := &fakeRCAGroupStore{group: testGroup(), claimOK: true, honorCtx: true}
	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := &disconnectingGenerator{disconnect: cancel, text: "analysis despite disconnect"}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, gen)
	report, err := svc.GenerateSync(reqCtx, "g1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != model.RCAStatusCompleted {
		t.Fatalf("expected completed report after disconnect, got %s", report.Status)
	}

	// 연결이 끊겨도 결과는 저장되고 그룹이 generating에 남아 있으면 안 됨
	if groups.group.RCAStatus != model.RCAStatusCompleted {
		t.Fatalf("group stuck in %s after client disconnect", groups.group.RCAStatus)
	}
	var stored model.RCAReport
	if err := json.Unmarshal([]byte(groups.content), &stored); err != nil {
		t.Fatalf("report was not persisted: %v", err)
	}
	if stored.RCAAnalysis != "analysis despite disconnect" {
		t.Fatalf("wrong persisted analysis: %q", stored.RCAAnalysis)
	}
}

func TestStartGenerationConflict(t *testing.T) {
	group := testGroup()
	group.RCAStatus = model.RCAStatusGenerating
	groups := &fakeRCAGroupStore{group: group, claimOK: false}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, &fakeGenerator{text: "x"})
	if _, err := svc.StartGeneration(context.Background(), "g1", false); !errors.Is(err, ErrRCAInProgress) {
		t.Fatalf("expected ErrRCAInProgress, got %v", err)
	}
}

func TestStartGenerationReturnsCached(t *testing.T) {
	group := testGroup()
	group.RCAStatus = model.RCAStatusCompleted
	group.RCAContent = `{"group_id":"g1","status":"completed","rca_analysis":"done"}`
	groups := &fakeRCAGroupStore{group: group, claimOK: true}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, &fakeGenerator{text: "x"})
	outcome, err := svc.StartGeneration(context.Background(), "g1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Started || outcome.CachedReport == nil {
		t.Fatalf("expected cached outcome, got %+v", outcome)
	}
	if groups.generate != 0 {
		t.Fatalf("cached path must not claim generating state")
	}
}

func TestGenerationFailureMarksFailed(t *testing.T) {
	groups := &fakeRCAGroupStore{group: testGroup(), claimOK: true}
	gen := &fakeGenerator{err: errors.New("model unavailable")}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, gen)
	report, err := svc.GenerateSync(context.Background(), "g1", false)
	if err != nil {
		t.Fatalf("generation failure is reported in the report, not as error: %v", err)
	}
	if report.Status != model.RCAStatusFailed || report.Error == "" {
		t.Fatalf("expected failed report with error, got %+v", report)
	}
	if groups.group.RCAStatus != model.RCAStatusFailed {
		t.Fatalf("group must be marked failed, got %s", groups.group.RCAStatus)
	}
	if !strings.HasPrefix(groups.content, "Error:") {
		t.Fatalf("failed content must carry the error: %s", groups.content)
	}
}

func TestRetrievalFailureDegradesGracefully(t *testing.T) {
	groups := &fakeRCAGroupStore{group: testGroup(), claimOK: true}
	searcher := &fakeSearcher{err: errors.New("vector store down")}
	gen := &fakeGenerator{text: "analysis without history"}

	svc := newRCATestService(groups, testAlerts(), searcher, gen)
	report, err := svc.GenerateSync(context.Background(), "g1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != model.RCAStatusCompleted {
		t.Fatalf("retrieval failure must not fail the report, got %s", report.Status)
	}
	if report.SimilarIncidentsFound != 0 {
		t.Fatalf("expected no similar incidents, got %d", report.SimilarIncidentsFound)
	}
}

func TestGenerateSyncEmptyGroupRejected(t *testing.T) {
	groups := &fakeRCAGroupStore{group: testGroup(), claimOK: true}
	svc := newRCATestService(groups, nil, &fakeSearcher{}, &fakeGenerator{text: "x"})
	if _, err := svc.GenerateSync(context.Background(), "g1", false); !errors.Is(err, ErrEmptyGroup) {
		t.Fatalf("expected ErrEmptyGroup, got %v", err)
	}
}

func TestGenerateSyncGroupNotFound(t *testing.T) {
	groups := &fakeRCAGroupStore{claimOK: true}
	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, &fakeGenerator{text: "x"})
	if _, err := svc.GenerateSync(context.Background(), "missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCustomRCADoesNotPersist(t *testing.T) {
	groups := &fakeRCAGroupStore{group: testGroup(), claimOK: true}
	gen := &fakeGenerator{text: "ad-hoc analysis"}

	svc := newRCATestService(groups, nil, &fakeSearcher{}, gen)
	report, err := svc.CustomRCA(context.Background(), model.CustomRCARequest{
		Alerts: []model.IngestAlertRequest{
			{MonitoringSystem: "manual", HostName: "DB-01", ServiceName: "Postgres", AlertName: "Slow-Query", Severity: "high", Message: "queries over 5s"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != model.RCAStatusCompleted {
		t.Fatalf("expected completed, got %s", report.Status)
	}
	if report.IncidentSummary.Host != "db-01" {
		t.Fatalf("custom group must normalize host, got %s", report.IncidentSummary.Host)
	}
	if len(groups.saved) != 0 {
		t.Fatalf("custom RCA must not touch stored groups")
	}
}

func TestCustomRCARequiresAlerts(t *testing.T) {
	svc := newRCATestService(&fakeRCAGroupStore{claimOK: true}, nil, &fakeSearcher{}, &fakeGenerator{text: "x"})
	if _, err := svc.CustomRCA(context.Background(), model.CustomRCARequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIncidentContextSections(t *testing.T) {
	group := *testGroup()
	alerts := make([]model.Alert, 0, 7)
	for i := 0; i < 7; i++ {
		alerts = append(alerts, model.Alert{
			ID: fmt.Sprintf("a%d", i), AlertName: fmt.Sprintf("alert-%d", i),
			Severity: "critical", Message: "m", Timestamp: time.Now().UTC(),
		})
	}
	alerts[0].Details = map[string]any{"cpu_percent": "99"}
	similar := []model.SimilarIncident{
		{Document: "doc1", SimilarityScore: 0.9},
		{Document: "doc2", SimilarityScore: 0.8},
		{Document: "doc3", SimilarityScore: 0.75},
		{Document: "doc4", SimilarityScore: 0.71},
	}

	ctx := buildIncidentContext(group, alerts, similar, 100000)
	for _, section := range []string{"=== CURRENT INCIDENT ===", "=== ALERTS IN THIS INCIDENT ===", "=== SIMILAR PAST INCIDENTS ==="} {
		if !strings.Contains(ctx, section) {
			t.Fatalf("context missing section %q", section)
		}
	}
	// 인시던트 헤더에는 타임스탬프 범위가 들어감
	if !strings.Contains(ctx, "Time Range: ") {
		t.Fatalf("context missing time range line:\n%s", ctx)
	}
	// details가 있는 알림은 details 줄을 포함
	if !strings.Contains(ctx, "- Details: ") || !strings.Contains(ctx, "cpu_percent") {
		t.Fatalf("context missing alert details:\n%s", ctx)
	}
	// 알림 블록은 5개까지, 나머지는 요약 한 줄
	if !strings.Contains(ctx, "Alert 5:") || strings.Contains(ctx, "Alert 6:") {
		t.Fatalf("alert blocks must be capped at 5")
	}
	if !strings.Contains(ctx, "... and 2 more alerts") {
		t.Fatalf("overflow summary line missing")
	}
	// 유사 인시던트는 3건까지
	if strings.Contains(ctx, "doc4") {
		t.Fatalf("similar incidents must be capped at 3")
	}
}

func TestRCAPromptStructure(t *testing.T) {
	prompt := buildRCAPrompt("=== CURRENT INCIDENT ===\nHost: web-01")
	sections := []string{
		"1. INCIDENT SUMMARY",
		"2. TIMELINE",
		"3. ROOT CAUSE ANALYSIS",
		"4. CONTRIBUTING FACTORS",
		"5. IMPACT ASSESSMENT",
		"6. IMMEDIATE ACTIONS",
		"7. PREVENTIVE MEASURES",
		"8. SIMILAR INCIDENT INSIGHTS",
	}
	for _, section := range sections {
		if !strings.Contains(prompt, section) {
			t.Fatalf("prompt missing section %q:\n%s", section, prompt)
		}
	}
	if !strings.Contains(prompt, "Host: web-01") {
		t.Fatalf("prompt must embed the incident context")
	}
}

func TestQuickPromptSamplesMessages(t *testing.T) {
	group := *testGroup()
	alerts := []model.Alert{
		{AlertName: "a1", Severity: "critical", Message: "disk usage at 95%"},
		{AlertName: "a2", Severity: "high", Message: "inode exhaustion imminent"},
		{AlertName: "a3", Severity: "high", Message: "log rotation stalled"},
		{AlertName: "a4", Severity: "low", Message: "backup window exceeded"},
	}

	prompt := buildQuickPrompt(group, alerts)
	if !strings.Contains(prompt, "Sample Messages: ") {
		t.Fatalf("prompt missing sample messages line:\n%s", prompt)
	}
	for _, want := range []string{"disk usage at 95%", "inode exhaustion imminent", "log rotation stalled"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing message %q:\n%s", want, prompt)
		}
	}
	// 메시지는 앞쪽 3건까지만
	if strings.Contains(prompt, "backup window exceeded") {
		t.Fatalf("prompt must cap sample messages at 3:\n%s", prompt)
	}
}

func TestTruncateContextBound(t *testing.T) {
	long := strings.Repeat("x", 5000)
	for _, max := range []int{10, 100, 4000, 4999} {
		got := truncateContext(long, max)
		if len(got) > max {
			t.Fatalf("max=%d: truncated length %d exceeds bound", max, len(got))
		}
		if max > len(truncationMarker) && !strings.HasSuffix(got, truncationMarker) {
			t.Fatalf("max=%d: marker suffix missing", max)
		}
	}
	if got := truncateContext("short", 4000); got != "short" {
		t.Fatalf("under-limit context must be unchanged, got %q", got)
	}
	if got := truncateContext(strings.Repeat("y", 4000), 4000); got != strings.Repeat("y", 4000) {
		t.Fatalf("exact-limit context must be unchanged")
	}
}

func TestStatusReportsContentPresence(t *testing.T) {
	group := testGroup()
	group.RCAStatus = model.RCAStatusCompleted
	group.RCAContent = `{"group_id":"g1"}`
	groups := &fakeRCAGroupStore{group: group, claimOK: true}

	svc := newRCATestService(groups, testAlerts(), &fakeSearcher{}, &fakeGenerator{text: "x"})
	status, err := svc.Status(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.RCAStatus != model.RCAStatusCompleted || !status.HasRCAContent {
		t.Fatalf("wrong status response: %+v", status)
	}
}
