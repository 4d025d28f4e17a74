package db

import (
	"context"

	"github.com/alert-rca/backend/internal/model"
)

// EnsureGroupSchema - alert_groups 테이블 생성
// alerts 테이블이 group_id FK로 참조하므로 먼저 생성해야 함
func (db *Postgres) EnsureGroupSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS alert_groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			host_name TEXT NOT NULL,
			service_name TEXT NOT NULL,
			group_key TEXT NOT NULL,
			alert_count INTEGER NOT NULL DEFAULT 0,
			severity_summary JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'active',
			rca_status TEXT NOT NULL DEFAULT 'pending',
			rca_content TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		// non-deleted 그룹에 대해서만 group_key 유일
		`CREATE UNIQUE INDEX IF NOT EXISTS alert_groups_group_key_idx
			ON alert_groups(group_key) WHERE status != 'deleted'`,
		`CREATE INDEX IF NOT EXISTS alert_groups_status_idx ON alert_groups(status)`,
		`CREATE INDEX IF NOT EXISTS alert_groups_updated_at_idx ON alert_groups(updated_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const groupColumns = `
	id, name, host_name, service_name, group_key, alert_count,
	severity_summary, status, rca_status, rca_content, created_at, updated_at`

// CreateGroup - 새 그룹 저장
func (db *Postgres) CreateGroup(ctx context.Context, group model.AlertGroup) error {
	query := `
		INSERT INTO alert_groups (
			id, name, host_name, service_name, group_key, alert_count,
			severity_summary, status, rca_status, rca_content, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`

	summary := group.SeveritySummary
	if summary == nil {
		summary = map[string]int{}
	}

	_, err := db.Pool.Exec(ctx, query,
		group.ID,
		group.Name,
		group.HostName,
		group.ServiceName,
		group.GroupKey,
		group.AlertCount,
		summary,
		group.Status,
		group.RCAStatus,
		group.RCAContent,
	)
	return err
}

// GetGroup - 그룹 상세 조회
func (db *Postgres) GetGroup(ctx context.Context, groupID string) (*model.AlertGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM alert_groups WHERE id = $1`

	var g model.AlertGroup
	err := db.Pool.QueryRow(ctx, query, groupID).Scan(
		&g.ID, &g.Name, &g.HostName, &g.ServiceName, &g.GroupKey, &g.AlertCount,
		&g.SeveritySummary, &g.Status, &g.RCAStatus, &g.RCAContent,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGroupByKey - 그룹 키로 non-deleted 그룹 조회
func (db *Postgres) GetGroupByKey(ctx context.Context, groupKey string) (*model.AlertGroup, error) {
	query := `SELECT ` + groupColumns + `
		FROM alert_groups
		WHERE group_key = $1 AND status != 'deleted'`

	var g model.AlertGroup
	err := db.Pool.QueryRow(ctx, query, groupKey).Scan(
		&g.ID, &g.Name, &g.HostName, &g.ServiceName, &g.GroupKey, &g.AlertCount,
		&g.SeveritySummary, &g.Status, &g.RCAStatus, &g.RCAContent,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroups - 그룹 목록 조회 (최근 업데이트순)
func (db *Postgres) ListGroups(ctx context.Context, status string, skip, limit int) ([]model.AlertGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM alert_groups`
	args := []any{}

	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}

	args = append(args, limit)
	query += ` ORDER BY updated_at DESC LIMIT $` + itoa(len(args))
	args = append(args, skip)
	query += ` OFFSET $` + itoa(len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.AlertGroup
	for rows.Next() {
		var g model.AlertGroup
		if err := rows.Scan(
			&g.ID, &g.Name, &g.HostName, &g.ServiceName, &g.GroupKey, &g.AlertCount,
			&g.SeveritySummary, &g.Status, &g.RCAStatus, &g.RCAContent,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, g)
	}

	if list == nil {
		list = []model.AlertGroup{}
	}
	return list, rows.Err()
}

// UpdateGroupStats - alert_count와 severity_summary 갱신
// 파티션 크기가 아닌 라이브 멤버 집계값을 받아야 증분 그룹핑에도 정확함
func (db *Postgres) UpdateGroupStats(ctx context.Context, groupID string, alertCount int, summary map[string]int) error {
	if summary == nil {
		summary = map[string]int{}
	}
	query := `
		UPDATE alert_groups
		SET alert_count = $2, severity_summary = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, groupID, alertCount, summary)
	return err
}

// UpdateGroupRCA - RCA 상태/내용 갱신
func (db *Postgres) UpdateGroupRCA(ctx context.Context, groupID, rcaContent, rcaStatus string) error {
	query := `
		UPDATE alert_groups
		SET rca_content = $2, rca_status = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, groupID, rcaContent, rcaStatus)
	return err
}

// MarkGroupRCAGenerating - generating 상태로의 조건부 전이
// 이미 generating이면 false를 리턴해 중복 실행을 차단함 (compare-and-swap)
func (db *Postgres) MarkGroupRCAGenerating(ctx context.Context, groupID string) (bool, error) {
	query := `
		UPDATE alert_groups
		SET rca_status = 'generating', updated_at = NOW()
		WHERE id = $1 AND rca_status != 'generating'
	`
	tag, err := db.Pool.Exec(ctx, query, groupID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ForceGroupRCAGenerating - 강제 재생성용 무조건 전이
func (db *Postgres) ForceGroupRCAGenerating(ctx context.Context, groupID string) error {
	query := `
		UPDATE alert_groups
		SET rca_status = 'generating', updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, groupID)
	return err
}

// UpdateGroupStatus - 그룹 상태 변경 (soft delete 포함)
func (db *Postgres) UpdateGroupStatus(ctx context.Context, groupID, status string) error {
	query := `
		UPDATE alert_groups
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, groupID, status)
	return err
}
