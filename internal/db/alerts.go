package db

import (
	"context"
	"strconv"

	"github.com/alert-rca/backend/internal/model"
)

// EnsureAlertSchema - alerts 테이블 생성
func (db *Postgres) EnsureAlertSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			monitoring_system TEXT NOT NULL,
			host_name TEXT NOT NULL,
			service_name TEXT NOT NULL,
			alert_name TEXT NOT NULL,
			severity TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			message TEXT NOT NULL,
			details JSONB NOT NULL DEFAULT '{}',
			ts TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			group_id TEXT REFERENCES alert_groups(id)
		)
		`,
		`CREATE INDEX IF NOT EXISTS alerts_host_name_idx ON alerts(host_name)`,
		`CREATE INDEX IF NOT EXISTS alerts_service_name_idx ON alerts(service_name)`,
		`CREATE INDEX IF NOT EXISTS alerts_group_id_idx ON alerts(group_id) WHERE group_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS alerts_status_idx ON alerts(status)`,
		`CREATE INDEX IF NOT EXISTS alerts_created_at_idx ON alerts(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const alertColumns = `
	id, monitoring_system, host_name, service_name, alert_name,
	severity, status, message, details, ts, created_at, updated_at, group_id`

// CreateAlert - 정규화된 알림 저장
func (db *Postgres) CreateAlert(ctx context.Context, alert model.Alert) error {
	query := `
		INSERT INTO alerts (
			id, monitoring_system, host_name, service_name, alert_name,
			severity, status, message, details, ts, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`

	details := alert.Details
	if details == nil {
		details = map[string]any{}
	}

	_, err := db.Pool.Exec(ctx, query,
		alert.ID,
		alert.MonitoringSystem,
		alert.HostName,
		alert.ServiceName,
		alert.AlertName,
		alert.Severity,
		alert.Status,
		alert.Message,
		details,
		alert.Timestamp,
	)
	return err
}

// GetAlert - Alert 상세 조회
func (db *Postgres) GetAlert(ctx context.Context, alertID string) (*model.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`

	var a model.Alert
	err := db.Pool.QueryRow(ctx, query, alertID).Scan(
		&a.ID, &a.MonitoringSystem, &a.HostName, &a.ServiceName, &a.AlertName,
		&a.Severity, &a.Status, &a.Message, &a.Details, &a.Timestamp,
		&a.CreatedAt, &a.UpdatedAt, &a.GroupID,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAlerts - 필터 조건으로 Alert 목록 조회 (최신순)
func (db *Postgres) ListAlerts(ctx context.Context, filter model.AlertFilter) ([]model.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE 1=1`
	args := []any{}

	if filter.HostName != "" {
		args = append(args, filter.HostName)
		query += ` AND host_name = $` + itoa(len(args))
	}
	if filter.ServiceName != "" {
		args = append(args, filter.ServiceName)
		query += ` AND service_name = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + itoa(len(args))
	}

	args = append(args, filter.Limit)
	query += ` ORDER BY created_at DESC LIMIT $` + itoa(len(args))
	args = append(args, filter.Skip)
	query += ` OFFSET $` + itoa(len(args))

	return db.queryAlerts(ctx, query, args...)
}

// GetUngroupedAlerts - 그룹에 속하지 않은 알림을 생성 시각 순으로 조회
// 안정적인 순서가 그룹핑 패스를 결정적으로 만듦
func (db *Postgres) GetUngroupedAlerts(ctx context.Context) ([]model.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE group_id IS NULL ORDER BY created_at`
	return db.queryAlerts(ctx, query)
}

// GetAlertsByGroupID - 특정 그룹에 속한 알림 목록 조회
func (db *Postgres) GetAlertsByGroupID(ctx context.Context, groupID string) ([]model.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE group_id = $1 ORDER BY created_at`
	return db.queryAlerts(ctx, query, groupID)
}

// UpdateAlertGroup - 알림의 그룹 참조 설정 (nil이면 그룹 해제)
func (db *Postgres) UpdateAlertGroup(ctx context.Context, alertID string, groupID *string) error {
	query := `
		UPDATE alerts
		SET group_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, alertID, groupID)
	return err
}

// UngroupAlertsByGroupID - 그룹 삭제 시 소속 알림의 그룹 참조를 일괄 해제
// 알림 자체는 보존됨 (soft delete 정책)
func (db *Postgres) UngroupAlertsByGroupID(ctx context.Context, groupID string) (int64, error) {
	query := `
		UPDATE alerts
		SET group_id = NULL, updated_at = NOW()
		WHERE group_id = $1
	`
	tag, err := db.Pool.Exec(ctx, query, groupID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountAlertsByGroupID - 그룹을 참조하는 알림 수 (alert_count 재계산용)
func (db *Postgres) CountAlertsByGroupID(ctx context.Context, groupID string) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM alerts WHERE group_id = $1`, groupID).Scan(&count)
	return count, err
}

func (db *Postgres) queryAlerts(ctx context.Context, query string, args ...any) ([]model.Alert, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(
			&a.ID, &a.MonitoringSystem, &a.HostName, &a.ServiceName, &a.AlertName,
			&a.Severity, &a.Status, &a.Message, &a.Details, &a.Timestamp,
			&a.CreatedAt, &a.UpdatedAt, &a.GroupID,
		); err != nil {
			return nil, err
		}
		list = append(list, a)
	}

	if list == nil {
		list = []model.Alert{}
	}
	return list, rows.Err()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
