package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"sourcer/internal/config"
	"sourcer/internal/events"
	"sourcer/internal/logger"
	"sourcer/internal/pipeline"
)

// Worker consumes sourcing requests from Kafka and runs them through the
// pipeline, one at a time. Terminal events for each run are published by the
// pipeline itself.
type Worker struct {
	config   *config.Config
	logger   *logger.Logger
	reader   *kafka.Reader
	pipeline *pipeline.Service
}

func New(cfg *config.Config, logger *logger.Logger, svc *pipeline.Service) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "sourcer-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:   cfg,
		logger:   logger,
		reader:   reader,
		pipeline: svc,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for sourcing requests...")

	for {
		message, err := w.reader.ReadMessage(context.Background())
		if err != nil {
			// Reader is closed on Stop; anything else is transient.
			if strings.Contains(err.Error(), "closed") {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if event.Type != events.TypeRequested {
			w.logger.Debug("Ignoring %s event", event.Type)
			continue
		}

		w.logger.Info("Processing queued sourcing request for %s", event.ProductURL)

		_, err = w.pipeline.Process(context.Background(), pipeline.Request{
			URL:    event.ProductURL,
			Tag:    event.Tag,
			MinQty: event.MinQty,
			MaxQty: event.MaxQty,
		})
		if err != nil {
			// A failed product does not block the next one.
			w.logger.Error("Sourcing run failed for %s: %v", event.ProductURL, err)
			continue
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
