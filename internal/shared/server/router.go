package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"potplanner-backend/internal/llm"
	"potplanner-backend/internal/llm/openai"
	"potplanner-backend/internal/recommendations"
	"potplanner-backend/internal/services/health"
	"potplanner-backend/internal/shared/cache"
	"potplanner-backend/internal/shared/config"
	"potplanner-backend/internal/shared/metrics"
	"potplanner-backend/internal/shared/server/middleware"
	"potplanner-backend/internal/shared/server/respond"
	"potplanner-backend/internal/shared/storage/db"
	"potplanner-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	telemetry.SetDebug(cfg.RecommendationDebug)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 5, Burst: 20},
			},
		}),
	)

	// Dependencies
	var repo recommendations.Repo
	var dbConn *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), conn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				conn = nil
			}
		}
		if conn != nil {
			dbConn = conn
			repo = &recommendations.PGRepo{DB: dbConn}
		}
	}
	if repo == nil {
		repo = recommendations.NewMemoryRepo()
	}

	var llmClient llm.Client = llm.PlaceholderClient{}
	if cfg.LLMProvider == "openai" && os.Getenv("OPENAI_API_KEY") != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			log.Printf("openai client unavailable, AI provider disabled: %v", err)
		} else {
			llmClient = openaiClient
		}
	}

	var matrixCache *cache.Cache
	if c, err := cache.New(cfg.MatrixCacheMaxBytes); err != nil {
		log.Printf("matrix cache unavailable: %v", err)
	} else {
		matrixCache = c
	}

	recSvc := recommendations.NewService(repo, llmClient, matrixCache, recommendations.Options{
		AITimeout:      cfg.AIRecommendTimeout,
		MatrixCacheTTL: cfg.MatrixCacheTTL,
		Debug:          cfg.RecommendationDebug,
		Monitoring:     cfg.MonitoringEnabled,
		SnapshotEvery:  cfg.SnapshotEvery,
		PersistEvents:  cfg.EventPersistEnabled,
	})
	recHandler := recommendations.NewHandler(recSvc)
	healthSvc := health.NewService(dbConn)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	recHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
