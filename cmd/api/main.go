package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casadocarlos/matriculas/internal/auth"
	"github.com/casadocarlos/matriculas/internal/background"
	"github.com/casadocarlos/matriculas/internal/config"
	"github.com/casadocarlos/matriculas/internal/database"
	"github.com/casadocarlos/matriculas/internal/geocode"
	"github.com/casadocarlos/matriculas/internal/handlers"
	middlewareCustom "github.com/casadocarlos/matriculas/internal/middleware"
	"github.com/casadocarlos/matriculas/internal/repositories"
	"github.com/casadocarlos/matriculas/internal/routes"
	"github.com/casadocarlos/matriculas/internal/services"
	pkglogger "github.com/casadocarlos/matriculas/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if !cfg.AuthEnabled() {
		logger.Warn("ADMIN_PASSWORD is not set; all endpoints are open without authentication")
	}

	// Initialize database and bring the schema up to date
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize repositories
	plateRepo := repositories.NewPlateRepository(db)
	seenEventRepo := repositories.NewSeenEventRepository(db)

	// In-memory auth state: sessions and per-client attempt records.
	// Neither survives a restart, which also revokes every session.
	blockLog := pkglogger.NewBlockLog(cfg.Auth.BlockLogFile, logger)
	sessions := auth.NewSessionStore(cfg.Auth.SessionTTL)
	attempts := auth.NewAttemptTracker(cfg.Auth.MaxAttempts, cfg.Auth.AttemptWindow, cfg.Auth.BlockDuration, blockLog)

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandomMs,
	})

	// Reverse geocoding client
	geocoder := geocode.NewClient(
		cfg.Geocode.BaseURL,
		cfg.Geocode.UserAgent,
		cfg.Geocode.AcceptLanguage,
		cfg.Geocode.Timeout,
		logger,
	)

	// Initialize services
	authService := services.NewAuthService(sessions, attempts, timingDelay, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, logger)
	plateService := services.NewPlateService(plateRepo, seenEventRepo, geocoder, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	plateHandler := handlers.NewPlateHandler(plateService)

	// Initialize sweeper
	sweeper := background.NewSweeper(sessions, attempts, logger, cfg.Auth.SweepInterval)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, plateHandler, sessions, cfg.AuthEnabled())

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start sweeper
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	go sweeper.Start(sweepCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
