// pgvector 기반 지식 베이스 저장소
//
// knowledge_documents 테이블이 벡터 지식 베이스 역할을 수행
// id는 "alert_{id}" / "group_{id}" 형태의 결정적 키라 재인덱싱이 upsert가 됨

package db

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/alert-rca/backend/internal/model"
)

// EmbeddingDim - text-embedding-004 출력 차원
const EmbeddingDim = 768

func (db *Postgres) EnsureKnowledgeSchema(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`
		CREATE TABLE IF NOT EXISTS knowledge_documents (
			id TEXT PRIMARY KEY,
			doc_type TEXT NOT NULL,
			document TEXT NOT NULL,
			embedding vector(768) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS knowledge_documents_embedding_idx
			ON knowledge_documents USING hnsw (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS knowledge_documents_doc_type_idx
			ON knowledge_documents(doc_type)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// UpsertKnowledgeDocument - 문서 upsert (결정적 id 기준)
func (db *Postgres) UpsertKnowledgeDocument(ctx context.Context, id, docType, document string, embedding []float32, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	query := `
		INSERT INTO knowledge_documents (id, doc_type, document, embedding, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			document = EXCLUDED.document,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
	`
	_, err := db.Pool.Exec(ctx, query, id, docType, document, pgvector.NewVector(embedding), metadata)
	return err
}

// QueryNearestDocuments - 코사인 거리 기준 최근접 k건 조회 (가까운 순)
func (db *Postgres) QueryNearestDocuments(ctx context.Context, embedding []float32, limit int) ([]model.KnowledgeHit, error) {
	query := `
		SELECT id, document, metadata, embedding <=> $1 AS distance
		FROM knowledge_documents
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	rows, err := db.Pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []model.KnowledgeHit
	for rows.Next() {
		var h model.KnowledgeHit
		if err := rows.Scan(&h.ID, &h.Document, &h.Metadata, &h.Distance); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}

	if hits == nil {
		hits = []model.KnowledgeHit{}
	}
	return hits, rows.Err()
}

// CountKnowledgeDocuments - 지식 베이스 문서 수
func (db *Postgres) CountKnowledgeDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_documents`).Scan(&count)
	return count, err
}

// ResetKnowledge - 지식 베이스 전체 삭제 (rebuild 전 초기화용)
func (db *Postgres) ResetKnowledge(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `TRUNCATE knowledge_documents`)
	return err
}
