package model

// KnowledgeHit - 벡터 지식 베이스 최근접 질의 결과 한 건
// Distance는 코사인 거리 (0에 가까울수록 유사)
type KnowledgeHit struct {
	ID       string
	Document string
	Metadata map[string]any
	Distance float64
}
