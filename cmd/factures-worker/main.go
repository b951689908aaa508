package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"factures/internal/amqp"
	"factures/internal/config"
	"factures/internal/extract"
	applog "factures/internal/log"
	"factures/internal/storage"
	"factures/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting factures-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if !cfg.ExtractionEnabled() {
		logger.Error("DOCAI_PROJECT_ID and DOCAI_PROCESSOR_ID are required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	extractor, err := extract.NewDocumentAIExtractor(context.Background(), extract.Config{
		ProjectID:   cfg.DocAIProjectID,
		Location:    cfg.DocAILocation,
		ProcessorID: cfg.DocAIProcessorID,
		Timeout:     cfg.ExtractTimeout,
	})
	if err != nil {
		logger.Error("Failed to initialize Document AI extractor", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	extractionWorker := worker.NewExtractionWorker(repo, extractor)

	go func() {
		err := amqpClient.ConsumeExtractionJobs(ctx, func(msg *amqp.ExtractionJobMessage) error {
			return extractionWorker.HandleExtractionJob(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight extraction a moment to finish
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
