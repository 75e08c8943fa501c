package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ricolabs/procure-api/docs" // Swagger docs
	"github.com/ricolabs/procure-api/internal/config"
	"github.com/ricolabs/procure-api/internal/database"
	"github.com/ricolabs/procure-api/internal/extraction"
	"github.com/ricolabs/procure-api/internal/handlers"
	"github.com/ricolabs/procure-api/internal/ledger"
	"github.com/ricolabs/procure-api/internal/middleware"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/services"
	"github.com/ricolabs/procure-api/internal/storage"
	"github.com/ricolabs/procure-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Procure API
// @version 1.0
// @description REST API for procurement compliance and approval workflows

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.OpenAIAPIKey == "" {
		logger.Warn("Invoice extraction disabled: OPENAI_API_KEY not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize document storage
	documents, err := storage.NewLocalDocumentStore(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize document storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized document storage", "path", cfg.StoragePath)

	// Initialize collaborators
	settlement := ledger.NewClient(cfg.LedgerNetwork)
	extractor := extraction.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	// Initialize repositories and services
	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	svcs := services.NewServices(repos, uow, settlement, documents, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, extractor, documents)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		// Proof verification (public, shared with external verifiers)
		v1.GET("/proofs/verify/:proof_id", h.Proof.Verify)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Reference data
			protected.GET("/vendors", h.Reference.Vendors)
			protected.GET("/categories", h.Reference.Categories)
			protected.GET("/limits", h.Reference.Limits)

			// Agreements
			protected.GET("/agreements", h.Agreement.Index)
			protected.GET("/agreements/:agreement_id", h.Agreement.Show)
			protected.POST("/agreements", middleware.RequireRole(models.RoleFinance, models.RoleAdmin), h.Agreement.Create)

			// Receipts
			protected.GET("/receipts", h.Receipt.Index)
			protected.GET("/receipts/recent", h.Receipt.Recent)
			protected.GET("/receipts/:receipt_id", h.Receipt.Show)
			protected.GET("/receipts/:receipt_id/document", h.Receipt.DownloadDocument)
			protected.POST("/receipts", middleware.RequireRole(models.RoleFinance, models.RoleAdmin), h.Receipt.Submit)
			protected.POST("/receipts/evaluate", h.Receipt.Evaluate)
			protected.POST("/receipts/extract", h.Receipt.Extract)

			// Approval actions and audit trail
			protected.POST("/actions", h.Approval.Action)
			protected.GET("/approvals/pending", h.Approval.Pending)
			protected.GET("/approvals/logs", h.Approval.Logs)
			protected.PUT("/limits/:category_id", middleware.RequireCFO(), h.Approval.UpdateLimit)

			// Range proofs
			protected.GET("/proofs", h.Proof.Index)
			protected.POST("/proofs", middleware.RequireRole(models.RoleFinance, models.RoleCFO, models.RoleAdmin), h.Proof.Generate)
			protected.POST("/proofs/:proof_id/revoke", middleware.RequireCFO(), h.Proof.Revoke)

			// Stats and reports
			protected.GET("/stats/dashboard", h.Stats.Dashboard)
			protected.GET("/stats/verified_spend", h.Stats.VerifiedSpend)
		}
	}

	return router
}
