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

	_ "github.com/abonos-app/abonos-api/docs" // Swagger docs
	"github.com/abonos-app/abonos-api/internal/config"
	"github.com/abonos-app/abonos-api/internal/database"
	"github.com/abonos-app/abonos-api/internal/handlers"
	"github.com/abonos-app/abonos-api/internal/jobs"
	"github.com/abonos-app/abonos-api/internal/middleware"
	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/abonos-app/abonos-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Abonos API
// @version 1.0
// @description REST API for recurring subscription billing: accruals, payments and allocations

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database schema", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, cfg)

	scheduleJobs(worker, svcs, cfg)

	h := handlers.NewHandlers(svcs)

	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

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
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.POST("/users/:user_id/toggle_status", h.User.ToggleStatus)

				// Destructive ledger operations
				admin.DELETE("/clients/:client_id", h.Client.Delete)
				admin.DELETE("/plans/:plan_id", h.Plan.Delete)
				admin.DELETE("/accruals/:accrual_id", h.Accrual.Delete)
				admin.DELETE("/payments/:payment_id", h.Payment.Delete)
				admin.DELETE("/adjustments/:adjustment_id", h.Adjustment.Delete)

				// Audit trail
				admin.GET("/audit", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Profile
			protected.GET("/users/me", h.User.Me)
			protected.POST("/users/change_password", h.User.ChangePassword)

			// Clients
			clients := protected.Group("/clients")
			{
				clients.GET("", h.Client.Index)
				clients.POST("", h.Client.Create)
				clients.GET("/:client_id", h.Client.Show)
				clients.PUT("/:client_id", h.Client.Update)
				clients.POST("/:client_id/activate", h.Client.Activate)
				clients.POST("/:client_id/deactivate", h.Client.Deactivate)
				clients.GET("/:client_id/statement", h.Report.Statement)
				clients.GET("/:client_id/statement/pdf", h.Report.StatementPDF)
			}

			// Plans
			plans := protected.Group("/plans")
			{
				plans.GET("", h.Plan.Index)
				plans.POST("", h.Plan.Create)
				plans.GET("/:plan_id", h.Plan.Show)
				plans.PUT("/:plan_id", h.Plan.Update)
				plans.POST("/:plan_id/activate", h.Plan.Activate)
				plans.POST("/:plan_id/deactivate", h.Plan.Deactivate)
				plans.POST("/:plan_id/end", h.Plan.End)
			}

			// Accruals
			accruals := protected.Group("/accruals")
			{
				accruals.GET("", h.Accrual.Index)
				accruals.POST("/generate", h.Accrual.Generate)
				accruals.GET("/:accrual_id", h.Accrual.Show)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.GET("", h.Payment.Index)
				payments.POST("", h.Payment.Create)
				payments.GET("/:payment_id", h.Payment.Show)
				payments.POST("/:payment_id/allocations", h.Payment.Allocate)
			}

			// Adjustments
			adjustments := protected.Group("/adjustments")
			{
				adjustments.GET("", h.Adjustment.Index)
				adjustments.POST("", h.Adjustment.Create)
				adjustments.GET("/:adjustment_id", h.Adjustment.Show)
			}

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("/dashboard", h.Report.Dashboard)
				reports.GET("/delinquency", h.Report.Delinquency)
				reports.GET("/collections", h.Report.Collections)
				reports.GET("/collections/csv", h.Report.CollectionsCSV)
				reports.GET("/collections/xlsx", h.Report.CollectionsXLSX)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Generate the current month's accruals on a fixed interval.
	// Generation is idempotent so repeated runs only fill what is
	// missing (new plans, recovered failures).
	interval := time.Duration(cfg.AccrualGenerationHours) * time.Hour
	worker.ScheduleEveryImmediate(interval, func(ctx context.Context) error {
		logger.Info("[Job] Generating accruals for current period...")
		result, err := svcs.Accrual.GeneratePeriod(ctx, models.CurrentPeriod())
		if err != nil {
			return err
		}
		logger.Info("[Job] Accrual generation finished",
			"period", result.Period.String(),
			"created", result.Created,
			"skipped", result.Skipped,
			"errors", result.Errors)
		return nil
	})

	// Purge expired refresh tokens nightly
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		purged, err := svcs.Auth.PurgeExpiredTokens(ctx)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.Info("[Job] Purged expired refresh tokens", "count", purged)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
