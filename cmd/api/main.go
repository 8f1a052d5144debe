package main

import (
	"context"
	"log"

	"sourcer/internal/api"
	"sourcer/internal/config"
	"sourcer/internal/database"
	"sourcer/internal/events"
	"sourcer/internal/logger"
	"sourcer/internal/pipeline"
	"sourcer/internal/services/lovbuy"
	"sourcer/internal/services/sheets"
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

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Initialize collaborators
	client := lovbuy.NewClient(cfg.LovbuyBaseURL, cfg.LovbuyAPIKey, logger)

	publisher, err := sheets.NewPublisher(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sheets publisher: %v", err)
	}

	eventsPub := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer eventsPub.Close()

	svc := pipeline.New(cfg, logger, client, publisher, db.DB, eventsPub)

	// Initialize API server
	server := api.New(cfg, logger, db, svc, eventsPub)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
