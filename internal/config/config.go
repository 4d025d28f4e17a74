package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	AI       AIConfig
	RCA      RCAConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

// AIConfig - 임베딩/생성 백엔드 공통 설정
type AIConfig struct {
	APIKey          string
	GenerationModel string
	EmbeddingModel  string
}

// RCAConfig - RCA 파이프라인 튜닝 값
// 컨텍스트 길이 제한, 유사도 임계값, 검색 개수, 외부 호출 타임아웃
type RCAConfig struct {
	MaxContextLength    int
	SimilarityThreshold float64
	TopKSimilar         int
	GenerationTimeout   string
	RetrievalTimeout    string
}

type AuthConfig struct {
	JWTSecret      string
	JWTAccessTTL   string
	JWTRefreshTTL  string
	AllowSignup    string
	AdminUsername  string
	AdminPassword  string
	CookieSecure   string
	CookieSameSite string
	CookiePath     string
	CookieDomain   string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "8000"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		AI: AIConfig{
			APIKey:          os.Getenv("AI_API_KEY"),
			GenerationModel: getenv("GENERATION_MODEL", "gemini-2.0-flash"),
			EmbeddingModel:  getenv("EMBEDDING_MODEL", "text-embedding-004"),
		},
		RCA: RCAConfig{
			MaxContextLength:    getenvInt("MAX_CONTEXT_LENGTH", 4000),
			SimilarityThreshold: getenvFloat("SIMILARITY_THRESHOLD", 0.7),
			TopKSimilar:         getenvInt("TOP_K_SIMILAR", 5),
			GenerationTimeout:   getenv("GENERATION_TIMEOUT", "120s"),
			RetrievalTimeout:    getenv("RETRIEVAL_TIMEOUT", "15s"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			JWTAccessTTL:   getenv("JWT_ACCESS_TTL", "15m"),
			JWTRefreshTTL:  getenv("JWT_REFRESH_TTL", "720h"),
			AllowSignup:    os.Getenv("ALLOW_SIGNUP"),
			AdminUsername:  os.Getenv("ADMIN_USERNAME"),
			AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: os.Getenv("AUTH_COOKIE_SAMESITE"),
			CookiePath:     os.Getenv("AUTH_COOKIE_PATH"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
