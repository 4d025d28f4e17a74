// Gemini API 클라이언트 정의
//
// 환경변수:
//   - AI_API_KEY: Gemini API 키
//   - EMBEDDING_MODEL (default: text-embedding-004)
//   - GENERATION_MODEL (default: gemini-2.0-flash)
//
// 임베딩과 텍스트 생성을 모두 이 클라이언트가 담당

package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/alert-rca/backend/internal/config"
)

type AIClient struct {
	client          *genai.Client
	embeddingModel  string
	generationModel string
}

func NewAIClient(cfg config.AIConfig) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing AI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	return &AIClient{
		client:          client,
		embeddingModel:  cfg.EmbeddingModel,
		generationModel: cfg.GenerationModel,
	}, nil
}

// EmbedText - 문서/쿼리 텍스트를 벡터로 변환
func (c *AIClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	res, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, fmt.Errorf("empty embedding result")
	}
	return res.Embeddings[0].Values, nil
}

// GenerateAnalysis - 단일 user 프롬프트로 분석 텍스트 생성
// 타임아웃/취소는 ctx로 제어함 (호출측이 데드라인 설정)
func (c *AIClient) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.generationModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generation backend call failed: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("generation backend returned empty response")
	}
	return text, nil
}
