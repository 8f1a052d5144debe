package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sourcer/internal/config"
	"sourcer/internal/database"
	"sourcer/internal/events"
	"sourcer/internal/logger"
	"sourcer/internal/pipeline"
	"sourcer/internal/services/lovbuy"
	"sourcer/internal/services/sheets"
	"sourcer/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	if cfg.LovbuyAPIKey == "" {
		logger.Fatal("LOVBUY_API_KEY is not set")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	client := lovbuy.NewClient(cfg.LovbuyBaseURL, cfg.LovbuyAPIKey, logger)

	publisher, err := sheets.NewPublisher(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sheets publisher: %v", err)
	}

	eventsPub := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer eventsPub.Close()

	svc := pipeline.New(cfg, logger, client, publisher, db.DB, eventsPub)

	// Initialize worker
	w := worker.New(cfg, logger, svc)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
