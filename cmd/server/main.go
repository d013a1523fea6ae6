package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/pdftext-api/internal/config"
	"github.com/BerylCAtieno/pdftext-api/internal/db"
	"github.com/BerylCAtieno/pdftext-api/internal/engine"
	"github.com/BerylCAtieno/pdftext-api/internal/extractor"
	"github.com/BerylCAtieno/pdftext-api/internal/provisioner"
	"github.com/BerylCAtieno/pdftext-api/internal/repository"
	"github.com/BerylCAtieno/pdftext-api/internal/router"
	"github.com/BerylCAtieno/pdftext-api/internal/services"
	"github.com/BerylCAtieno/pdftext-api/internal/storage"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Initialize S3 storage
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	s3Storage, err := storage.NewS3Storage(startupCtx, cfg)
	cancelStartup()
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// Initialize PDF engine; the worker is provisioned on first use
	pdfEngine, err := engine.New(cfg.Engine)
	if err != nil {
		logger.Fatal("Failed to initialize PDF engine", "error", err)
	}
	workerProvisioner := provisioner.New(pdfEngine, cfg.WorkerURL,
		provisioner.WithFetcher(provisioner.NewHTTPFetcher(cfg.WorkerFetchTimeout)),
		provisioner.WithStore(provisioner.NewFileStore(cfg.WorkerCacheDir)),
		provisioner.WithLogger(logger))
	textExtractor := extractor.New(pdfEngine, workerProvisioner, logger)

	// Initialize extraction service
	repo := repository.NewRepository(database)
	service := services.NewService(repo, s3Storage, textExtractor, logger)

	// Setup HTTP router
	handler := router.NewRouter(service, logger, cfg.MaxFileSize)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "engine", cfg.Engine)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
