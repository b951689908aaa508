package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"factures/internal/amqp"
	"factures/internal/config"
	"factures/internal/extract"
	apphttp "factures/internal/http"
	applog "factures/internal/log"
	"factures/internal/storage"
	"factures/internal/upload"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose invoice store backend
	var store storage.InvoiceStore
	switch cfg.DataBackend {
	case "memory":
		store = storage.NewMemoryStore()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

	// Optional AMQP publisher: uploads are queued for the worker when a
	// broker is configured, otherwise extracted inline.
	var publisher upload.JobPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Extraction jobs will be queued", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	// Optional inline extractor, used when no broker is configured.
	var extractor extract.Extractor
	if publisher == nil && cfg.ExtractionEnabled() {
		docAI, err := extract.NewDocumentAIExtractor(context.Background(), extract.Config{
			ProjectID:   cfg.DocAIProjectID,
			Location:    cfg.DocAILocation,
			ProcessorID: cfg.DocAIProcessorID,
			Timeout:     cfg.ExtractTimeout,
		})
		if err != nil {
			logger.Error("Failed to initialize Document AI extractor", "error", err)
			os.Exit(1)
		}
		defer docAI.Close()
		extractor = docAI
		logger.Info("Inline extraction enabled", "location", cfg.DocAILocation)
	}

	uploads, err := upload.NewService(cfg.UploadDir, cfg.UploadWorkers, cfg.MaxUploadBytes, publisher, extractor, store)
	if err != nil {
		logger.Error("Failed to initialize upload service", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, uploads)

	// Configure server timeouts and limits
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting factures server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
