package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/MinionBot_Go/internal/activity"
	"github.com/osse101/MinionBot_Go/internal/bootstrap"
	"github.com/osse101/MinionBot_Go/internal/concurrency"
	"github.com/osse101/MinionBot_Go/internal/config"
	"github.com/osse101/MinionBot_Go/internal/database"
	"github.com/osse101/MinionBot_Go/internal/eventlog"
	"github.com/osse101/MinionBot_Go/internal/gear"
	"github.com/osse101/MinionBot_Go/internal/scheduler"
	"github.com/osse101/MinionBot_Go/internal/server"
	"github.com/osse101/MinionBot_Go/internal/transaction"
	"github.com/osse101/MinionBot_Go/internal/user"
	"github.com/osse101/MinionBot_Go/internal/worker"
)

// ShutdownTimeout bounds how long graceful shutdown may take before the
// process exits anyway.
const ShutdownTimeout = 30 * time.Second

func main() {
	// 1. Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	warnings, err := config.ValidateEnvWithWarnings()
	for _, w := range warnings {
		slog.Warn(w)
	}
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}

	// 2. Set up logging
	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// 3. Connect to the database
	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool)

	// 4. Load the item catalog
	catalog, err := bootstrap.LoadItemCatalog()
	if err != nil {
		slog.Error("Item catalog load failed", "error", err)
		os.Exit(1)
	}

	// 5. Event system
	eventBus, resilientPublisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system setup failed", "error", err)
		os.Exit(1)
	}

	eventLogService := eventlog.NewService(repos.EventLog)
	if err := bootstrap.RegisterEventHandlers(eventBus, eventLogService); err != nil {
		slog.Error("Event handler registration failed", "error", err)
		os.Exit(1)
	}

	// 6. Worker pool and services
	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()

	userService := user.NewServiceWithCache(repos.User, repos.Economy, resilientPublisher, cfg.UserCacheSize, cfg.UserCacheTTL)
	engine := transaction.NewService(repos.Economy, repos.TransactionLog, catalog, resilientPublisher)
	gearService := gear.NewService(catalog, repos.Economy, repos.GearPreset, engine, resilientPublisher, gear.AutoConfirmer{})

	guard := activity.NewGuard(repos.Economy, concurrency.NewLockManager())
	activityService := activity.NewService(guard, engine, pool, resilientPublisher)

	// 7. Periodic audit log cleanup
	sched := scheduler.New(pool)
	sched.Schedule(cfg.CleanupInterval, eventlog.NewCleanupJob(eventLogService, cfg.EventRetentionDays))
	sched.Schedule(cfg.CleanupInterval, transaction.NewCleanupJob(repos.TransactionLog, cfg.TransactionRetentionDays))

	// 8. HTTP server
	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, server.Services{
		User:        userService,
		Transaction: engine,
		Gear:        gearService,
		Activity:    activityService,
		Economy:     repos.Economy,
		Catalog:     catalog,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// 9. Wait for shutdown signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
		}
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		ActivityService:    activityService,
		Scheduler:          sched,
		Pool:               pool,
		ResilientPublisher: resilientPublisher,
	})
}
