package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/cache"
	"github.com/algoprep/backend/internal/data"
	"github.com/algoprep/backend/internal/handler"
	"github.com/algoprep/backend/internal/infrastructure"
	"github.com/algoprep/backend/internal/llm"
	"github.com/algoprep/backend/internal/middleware"
	"github.com/algoprep/backend/internal/pdf"
	"github.com/algoprep/backend/internal/queue"
	"github.com/algoprep/backend/internal/repository"
	"github.com/algoprep/backend/internal/service"
)

func main() {
	// Load configuration
	config := infrastructure.LoadConfig()

	// Initialize logger
	logger, err := infrastructure.NewLogger(config.Server.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.SyncLogger(logger)

	logger.Info("Starting AlgoPrep API",
		zap.String("environment", config.Server.Environment),
		zap.Int("port", config.Server.Port),
	)

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize telemetry
	telemetry, err := infrastructure.NewTelemetry(ctx, &config.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	// Create metrics
	metrics, err := telemetry.CreateMetrics()
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	database, err := infrastructure.NewDatabase(&config.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	problemRepo := repository.NewProblemRepository(database.DB)
	taxonomyRepo := repository.NewTaxonomyRepository(database.DB)
	interviewRepo := repository.NewInterviewRepository(database.DB)
	submissionRepo := repository.NewSubmissionRepository(database.DB)
	resumeRepo := repository.NewResumeRepository(database.DB)

	// Seed topics and patterns
	seeder := data.NewSeeder(taxonomyRepo, logger)
	if err := seeder.Seed(); err != nil {
		logger.Error("Failed to seed taxonomy", zap.Error(err))
		os.Exit(1)
	}

	// Mock problem catalog for thin-pool interviews
	catalog, err := data.NewCatalog()
	if err != nil {
		logger.Error("Failed to load mock problem catalog", zap.Error(err))
		os.Exit(1)
	}

	// Redis backs the background review queue
	redisClient, err := infrastructure.NewRedisClient(ctx, &config.Redis, logger)
	if err != nil {
		logger.Error("Failed to connect to redis", zap.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	reviewQueue := queue.NewReviewQueue(redisClient, config.Redis.ReviewQueueName, logger)

	// Initialize services
	llmClient := llm.NewGeminiClient(config.LLM.APIKey, config.LLM.Model)
	userService := service.NewUserService(userRepo, &config.JWT, telemetry.Tracer, logger)
	problemService := service.NewProblemService(problemRepo, taxonomyRepo, telemetry.Tracer, logger)
	reviewService := service.NewReviewService(llmClient, cache.NewReviewCache(), metrics, telemetry.Tracer, logger)
	interviewService := service.NewInterviewService(
		interviewRepo,
		problemRepo,
		submissionRepo,
		taxonomyRepo,
		problemService,
		catalog,
		reviewQueue,
		metrics,
		telemetry.Tracer,
		logger,
	)
	assistantService := service.NewAssistantService(llmClient, telemetry.Tracer, logger)
	resumeService := service.NewResumeService(resumeRepo, llmClient, pdf.NewResumeRenderer(), telemetry.Tracer, logger)

	// Start the background review worker
	worker := queue.NewWorker(redisClient, config.Redis.ReviewQueueName, reviewService, submissionRepo, logger)
	go worker.Start(ctx)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	problemHandler := handler.NewProblemHandler(problemService)
	taxonomyHandler := handler.NewTaxonomyHandler(problemService)
	interviewHandler := handler.NewInterviewHandler(interviewService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	resumeHandler := handler.NewResumeHandler(resumeService)

	// Setup Gin router
	if config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add global middleware
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	router.Use(middleware.TracingMiddleware(telemetry.Tracer))
	router.Use(middleware.MetricsMiddleware(metrics))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": config.Telemetry.ServiceVersion,
		})
	})

	// Metrics endpoint for Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Taxonomy routes (public)
		api.GET("/topics", taxonomyHandler.GetTopics)
		api.GET("/patterns", taxonomyHandler.GetPatterns)

		// Mock interview sessions are shareable links, so the GET is only
		// optionally authenticated
		api.GET("/interview/:id",
			middleware.OptionalAuthMiddleware(userService),
			interviewHandler.GetInterview,
		)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(userService))
		{
			protected.GET("/users/me", authHandler.Me)

			// Problem authoring
			problems := protected.Group("/problems")
			{
				problems.POST("", problemHandler.CreateProblem)
				problems.GET("", problemHandler.GetProblems)
				problems.GET("/:id", problemHandler.GetProblem)
				problems.DELETE("/:id", problemHandler.DeleteProblem)
			}

			// Interview sessions
			interview := protected.Group("/interview")
			{
				interview.POST("/create", interviewHandler.CreateInterview)
				interview.POST("/:id", interviewHandler.SubmitSolution)
				interview.POST("/:id/complete", interviewHandler.CompleteInterview)
				interview.GET("/:id/feedback", interviewHandler.GetFeedback)
			}

			// Code review
			protected.POST("/review", reviewHandler.Review)

			// Assistant personas
			protected.POST("/explain", assistantHandler.Explain)
			protected.POST("/code-analyze", assistantHandler.AnalyzeCode)
			protected.POST("/code-help", assistantHandler.CodeHelp)
			protected.POST("/docs", assistantHandler.Docs)
			protected.POST("/info-help", assistantHandler.InfoHelp)

			// Resume tooling
			resume := protected.Group("/resume")
			{
				resume.POST("/analyze", resumeHandler.Analyze)
				resume.POST("/cover-letter", resumeHandler.GenerateCoverLetter)
				resume.POST("/update-responses", resumeHandler.UpdateResponses)
				resume.GET("/download", resumeHandler.Download)
				resume.DELETE("/:id", resumeHandler.Delete)
			}
		}
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop the review worker before closing its dependencies
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
