/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the POS backend server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment (.env supported)
  2. Build the zap logger
  3. Initialize SQLite store (and seed demo data when enabled)
  4. Wire domain services: recorder, reporter, archiver
  5. Configure HTTP router
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

ENVIRONMENT:
  HOST, PORT, DATABASE_PATH, ARCHIVE_DIR, LOG_LEVEL,
  CORS_ALLOWED_ORIGINS, SEED_DEMO_DATA

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/pos-backend/api"
	"github.com/stitchline/pos-backend/config"
	"github.com/stitchline/pos-backend/pos"
	"github.com/stitchline/pos-backend/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	if cfg.SeedDemoData {
		if err := store.SeedDemo(context.Background()); err != nil {
			logger.Warn("failed to seed demo data", zap.Error(err))
		}
	}

	// Wire domain services
	recorder := pos.NewRecorder(store, logger)
	reporter := pos.NewReporter(store)
	archiver := pos.NewArchiver(store, pos.NewCSVExporter(cfg.ArchiveDir), logger)

	handler := api.NewHandler(store, recorder, reporter, archiver, logger)
	router := api.NewRouter(handler, cfg.AllowedOrigins())

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Addr()),
			zap.String("database", cfg.DatabasePath),
			zap.String("archive_dir", cfg.ArchiveDir))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
