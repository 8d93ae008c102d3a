package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"patrolBandit/app/echo-server/router"
	"patrolBandit/business/experiment"
	"patrolBandit/internal/middleware"
	"patrolBandit/internal/repository/memory"
	psqlRepo "patrolBandit/internal/repository/postgres"
	redisRepo "patrolBandit/internal/repository/redis"
	"patrolBandit/internal/rest"
	"patrolBandit/pkg/config"
	"patrolBandit/pkg/database"
	redisdb "patrolBandit/pkg/database/redis"
	"patrolBandit/pkg/logger"
	"patrolBandit/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Environment: cfg.App.Environment,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	logger.Info("Starting simulation server", "name", cfg.App.Name, "version", cfg.App.Version)

	metrics.Init()

	// Init repo
	var repo experiment.SimulationRepository = memory.NewSimulationRepository()
	if cfg.Database.Enabled() {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")
		repo = psqlRepo.NewSimulationRepository(db)
	}

	var cache experiment.ResultCache = memory.NewResultCache()
	if cfg.Redis.Enabled() {
		client, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer func() {
			if err := redisdb.CloseRedisClient(client); err != nil {
				logger.Error("Failed to close Redis client", "error", err)
			}
		}()
		cache = redisRepo.NewResultCache(client, time.Duration(cfg.Redis.ResultTTLMin)*time.Minute)
	}

	// Init service
	defaults := experiment.DefaultConfig()
	defaults.Trials = cfg.Simulation.Trials
	defaults.ConvergenceThreshold = cfg.Simulation.ConvergenceThreshold
	simulationService := experiment.NewSimulationService(repo, cache, defaults)

	// Init handler
	simulationHandler := rest.NewSimulationHandler(simulationService, rest.SimulationDefaults{
		Seed:                 cfg.Simulation.Seed,
		Horizon:              cfg.Simulation.Horizon,
		MaxHorizon:           cfg.Simulation.MaxHorizon,
		MaxArmRounds:         cfg.Simulation.MaxArmRounds,
		Trials:               cfg.Simulation.Trials,
		ConvergenceThreshold: cfg.Simulation.ConvergenceThreshold,
	})

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupSimulationRoutes(api, simulationHandler)
	router.SetupMetricsRoute(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
