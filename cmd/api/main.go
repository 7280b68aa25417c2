package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/ticket-tracker-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-tracker-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-tracker-backend/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-tracker-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-tracker-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/ticket-tracker-backend/internal/config"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
	"github.com/lorrc/ticket-tracker-backend/internal/core/services"
	"github.com/lorrc/ticket-tracker-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Driver,
	)

	// 3. Initialize Ticket Store
	ctx := context.Background()

	var (
		ticketRepo  ports.TicketRepository
		healthStore httpAdapter.HealthChecker
		poolToClose *pgxpool.Pool
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if err := runMigrations(cfg); err != nil {
			logger.Error("database migration failed", "error", err)
			os.Exit(1)
		}

		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			logger.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}

		poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
		poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		poolToClose = pool

		if err := pool.Ping(ctx); err != nil {
			logger.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		logger.Info("database connection established")

		ticketRepo = postgres.NewTicketRepository(pool)
		healthStore = pool

	default:
		ticketRepo = memory.NewTicketRepository()
	}

	if poolToClose != nil {
		defer poolToClose.Close()
	}

	if cfg.Storage.SeedDemoData {
		if err := memory.SeedDemoTickets(ctx, ticketRepo); err != nil {
			logger.Error("failed to seed demo tickets", "error", err)
			os.Exit(1)
		}
		logger.Info("demo tickets seeded")
	}

	// 4. Initialize Real-time Components
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Initialize Rate Limiter
	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Services (Core)
	ticketService := services.NewTicketService(ticketRepo, hub)
	statsService := services.NewStatsService(ticketRepo)
	assignmentService := services.NewAssignmentService(ticketRepo, hub)

	// Handlers (Primary Adapters)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, statsService, assignmentService, errorHandler, logger)
	statsHandler := httpAdapter.NewStatsHandler(statsService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(healthStore, cfg.Storage.Driver, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	// Health check endpoints (outside /api for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// Service info
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		httpAdapter.WriteJSON(w, http.StatusOK, map[string]string{
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
			"docs":    "/api/tickets",
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Mount("/tickets", ticketHandler.Router())
		r.Mount("/stats", statsHandler.Router())
		r.Route("/reports", statsHandler.RegisterReportRoutes)
		r.Get("/ws", wsHandler.ServeHTTP)
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

// runMigrations applies pending schema migrations before the pool opens.
func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
