package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/database"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Contact form relay for the portfolio site.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "email_provider", cfg.EmailProvider)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database (optional submission archive)
	var submissionRepo domain.SubmissionRepository
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := postgres.EnsureSchema(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to prepare submission archive", "error", err)
			os.Exit(1)
		}
		submissionRepo = postgres.NewSubmissionRepository(dbPool)
	}

	// 4. Setup Redis (optional rate limit store)
	redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
	case err != nil:
		logger.Log.Warn("Redis unavailable - rate limiting will use in-memory fallback", "error", err)
	default:
		defer redisClient.Close()
	}

	// 5. Setup Email Service
	sender, err := email.NewSender(cfg)
	if err != nil {
		logger.Log.Error("Invalid email configuration", "error", err)
		os.Exit(1)
	}
	if !sender.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
	}

	// 6. Setup Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry, "portfolio")

	// 7. Setup Session Signer
	signer, err := auth.NewSessionSigner(cfg.SessionSecret)
	if err != nil {
		logger.Log.Error("Failed to create session signer", "error", err)
		os.Exit(1)
	}

	// 8. Setup UseCases
	emailGateway := usecase.NewEmailGateway(sender)
	contactUC := usecase.NewContactUsecase(
		usecase.NewRecordingGateway(emailGateway, domain.ChannelDirect, submissionRepo, appMetrics),
		appMetrics,
	)
	formSessionUC := usecase.NewFormSessionUsecase(
		usecase.NewRecordingGateway(emailGateway, domain.ChannelSession, submissionRepo, appMetrics),
		signer,
		appMetrics,
		usecase.FormSessionConfig{
			IdleTimeout: cfg.SessionIdleTimeout,
			MaxSessions: cfg.SessionMax,
			ResetDelay:  cfg.SuccessResetDelay,
			WaitTimeout: cfg.SubmitWaitTimeout,
		},
	)
	formSessionUC.StartJanitor(ctx, time.Minute)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:     contactUC,
		FormSessionUC: formSessionUC,
		Signer:        signer,
		Metrics:       appMetrics,
		Gatherer:      registry,
		Redis:         redisClient,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SubmitWaitTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	formSessionUC.CloseAll()

	logger.Log.Info("Server exiting")
}
