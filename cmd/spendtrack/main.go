package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/arvindks/spendtrack/internal/adapters/database/sqlite"
	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/core/services"
	"github.com/arvindks/spendtrack/internal/handlers"
	"github.com/arvindks/spendtrack/internal/middleware"
	"github.com/arvindks/spendtrack/internal/platform/config"
	"github.com/arvindks/spendtrack/migrations"
	"github.com/arvindks/spendtrack/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Apply migrations before opening the application handle
	if err := database.RunMigrations(cfg.SqlitePath, migrations.FS); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Database migrations applied successfully.")

	db, err := database.NewSqliteDB(cfg.SqlitePath)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.CloseDB(db)

	repos := sqlite.NewRepositoryProvider(db)
	serviceContainer := services.NewServiceContainer(repos)

	// Seed the default savings account on first run
	if err := serviceContainer.Account.EnsureDefaultAccounts(context.Background()); err != nil {
		logger.Error("Failed to ensure default accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	// Fire schedules that came due while the process was down, then keep
	// ticking in the background.
	go runScheduleTicker(context.Background(), logger, serviceContainer, cfg.ScheduleTickInterval)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runScheduleTicker(ctx context.Context, logger *slog.Logger, sc *portssvc.ServiceContainer, interval time.Duration) {
	ctx = middleware.WithLogger(ctx, logger)

	processDue := func() {
		fired, err := sc.Schedule.ProcessDue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to process due schedules", slog.String("error", err.Error()))
			return
		}
		if fired > 0 {
			logger.Info("Due schedules processed", slog.Int("fired", fired))
		}
	}

	processDue()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processDue()
		}
	}
}
