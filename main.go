// Alert RCA API 서버 엔트리포인트
//
// 기동 순서:
//  1. .env 로드 및 설정 파싱
//  2. Postgres 풀 생성, 스키마 보장 (alerts / groups / knowledge / auth)
//  3. Gemini 클라이언트, 서비스, 핸들러 조립
//  4. 라우트 등록 후 서버 시작

package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/alert-rca/backend/internal/client"
	"github.com/alert-rca/backend/internal/config"
	"github.com/alert-rca/backend/internal/db"
	"github.com/alert-rca/backend/internal/handler"
	"github.com/alert-rca/backend/internal/service"
)

// @title Alert RCA API
// @version 1.0
// @description Alert grouping and RCA orchestration API. Ingests infrastructure alerts, clusters them into incident groups and generates narrative root cause analyses.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pg.Pool.Close()

	if err := pg.EnsureGroupSchema(ctx); err != nil {
		log.Fatalf("failed to ensure group schema: %v", err)
	}
	if err := pg.EnsureAlertSchema(ctx); err != nil {
		log.Fatalf("failed to ensure alert schema: %v", err)
	}
	if err := pg.EnsureKnowledgeSchema(ctx); err != nil {
		log.Fatalf("failed to ensure knowledge schema: %v", err)
	}
	if err := pg.EnsureAuthSchema(ctx); err != nil {
		log.Fatalf("failed to ensure auth schema: %v", err)
	}

	aiClient, err := client.NewAIClient(cfg.AI)
	if err != nil {
		log.Fatalf("failed to create AI client: %v", err)
	}

	retrievalTimeout := parseDurationOr(cfg.RCA.RetrievalTimeout, 15*time.Second)
	generationTimeout := parseDurationOr(cfg.RCA.GenerationTimeout, 120*time.Second)

	knowledgeService := service.NewKnowledgeService(
		pg, aiClient, pg,
		cfg.RCA.SimilarityThreshold, cfg.RCA.TopKSimilar, retrievalTimeout,
	)
	alertService := service.NewAlertService(pg, knowledgeService, db.IsNoRows)
	groupingService := service.NewGroupingService(pg, pg, knowledgeService, db.IsNoRows)
	rcaService := service.NewRCAService(
		pg, pg, knowledgeService, aiClient, db.IsNoRows,
		cfg.RCA.MaxContextLength, cfg.RCA.TopKSimilar, generationTimeout,
	)

	authService, err := service.NewAuthService(pg, db.IsNoRows, cfg.Auth)
	if err != nil {
		log.Fatalf("failed to create auth service: %v", err)
	}
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}

	alertHandler := handler.NewAlertHandler(alertService)
	groupHandler := handler.NewGroupHandler(groupingService, rcaService)
	rcaHandler := handler.NewRCAHandler(rcaService, knowledgeService)
	authHandler := handler.NewAuthHandler(authService)

	router := gin.Default()

	allowedOrigins := strings.Split(cfg.Server.AllowedOrigins, ",")
	router.Use(handler.CORSMiddleware(allowedOrigins, true))

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/config", authHandler.Config)
		auth.GET("/me", handler.AuthMiddleware(authService), authHandler.Me)
	}

	api := router.Group("/api/v1", handler.AuthMiddleware(authService))
	{
		alerts := api.Group("/alerts")
		{
			alerts.POST("/ingest", alertHandler.Ingest)
			alerts.POST("/batch-ingest", alertHandler.BatchIngest)
			alerts.GET("", alertHandler.List)
			alerts.GET("/ungrouped/list", alertHandler.Ungrouped)
			alerts.GET("/stats/summary", alertHandler.Stats)
			alerts.GET("/:alert_id", alertHandler.Get)
		}

		groups := api.Group("/groups")
		{
			groups.POST("/create", groupHandler.CreateGroups)
			groups.GET("", groupHandler.List)
			groups.GET("/stats/summary", groupHandler.Stats)
			groups.GET("/:group_id", groupHandler.Get)
			groups.DELETE("/:group_id", groupHandler.Delete)
			groups.POST("/:group_id/generate-rca", groupHandler.GenerateRCA)
			groups.GET("/:group_id/rca-status", groupHandler.RCAStatus)
		}

		rca := api.Group("/rca")
		{
			rca.POST("/search-incidents", rcaHandler.SearchIncidents)
			rca.POST("/generate-custom", rcaHandler.GenerateCustom)
			rca.GET("/knowledge-base/stats", rcaHandler.KnowledgeStats)
			rca.POST("/knowledge-base/rebuild", rcaHandler.RebuildKnowledge)
			rca.GET("/:group_id", rcaHandler.Get)
			rca.GET("/:group_id/quick-analysis", rcaHandler.QuickAnalysis)
			rca.GET("/:group_id/similar-incidents", rcaHandler.SimilarIncidents)
		}
	}

	addr := ":" + cfg.Server.Port
	log.Printf("Alert RCA API server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}
