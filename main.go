package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"healthsync/internal/config"
	"healthsync/internal/handler"
	"healthsync/internal/middleware"
	"healthsync/internal/remote"
	"healthsync/internal/repository"
	"healthsync/internal/service"
	"healthsync/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("remote", cfg.Remote.BaseURL),
	)

	// Local health-sample store
	poolCfg, err := pgxpool.ParseConfig(cfg.HealthStore.URL)
	if err != nil {
		logger.Fatal("Invalid health store URL", zap.Error(err))
	}
	poolCfg.MaxConns = int32(cfg.HealthStore.MaxConns)
	poolCfg.MaxConnLifetime = cfg.HealthStore.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("Failed to connect to health store", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping health store", zap.Error(err))
	}
	logger.Info("Successfully connected to health store")

	healthStore := repository.NewHealthStore(pool, logger)
	if err := healthStore.Migrate(context.Background()); err != nil {
		logger.Fatal("Failed to migrate health store", zap.Error(err))
	}

	// Persisted local state
	stateStore, err := state.Open(cfg.State.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to open state store", zap.Error(err))
	}
	defer stateStore.Close()

	// Reaching the store proves local health-data access is granted
	if err := stateStore.SetAuthorizationGranted(true); err != nil {
		logger.Warn("Failed to record authorization flag", zap.Error(err))
	}

	// Remote API client with its credential session
	session := remote.NewAuthSession(
		cfg.Remote.BaseURL,
		&http.Client{Timeout: cfg.Remote.Timeout},
		stateStore,
		logger,
	)
	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, session, logger)

	// Core sync engine
	source := service.NewMetricSource(healthStore, logger)
	aggregator := service.NewDayAggregator(source, logger)
	orchestrator := service.NewBackfillOrchestrator(aggregator, client, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(session, logger)
	syncHandler := handler.NewSyncHandler(orchestrator, aggregator, stateStore, logger)
	workoutHandler := handler.NewWorkoutHandler(client, logger)
	healthHandler := handler.NewHealthHandler(healthStore, logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Recovery middleware must be first
	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))

	r.GET("/healthz", healthHandler.GetHealthz)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.PostLogin)
		api.POST("/auth/logout", authHandler.PostLogout)

		api.POST("/sync/today", syncHandler.PostSyncToday)
		api.POST("/sync/backfill", syncHandler.PostBackfill)
		api.GET("/sync/status", syncHandler.GetStatus)
		api.GET("/record/:date", syncHandler.GetRecord)

		api.GET("/exercises", workoutHandler.GetExercises)
		api.POST("/workouts", workoutHandler.PostWorkouts)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
