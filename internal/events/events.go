package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"sourcer/internal/logger"
)

const Topic = "sourcing-events"

const (
	TypeRequested = "sourcing.requested"
	TypeCompleted = "sourcing.completed"
	TypeNoRows    = "sourcing.no_rows"
	TypeFailed    = "sourcing.failed"
)

// Event is the lifecycle message exchanged over the sourcing topic. A
// requested event carries the request fields; terminal events add the
// outcome.
type Event struct {
	Type       string    `json:"type"`
	JobID      string    `json:"job_id,omitempty"`
	ProductURL string    `json:"product_url"`
	Tag        string    `json:"tag,omitempty"`
	MinQty     *int      `json:"min_qty,omitempty"`
	MaxQty     *int      `json:"max_qty,omitempty"`
	RowCount   int       `json:"row_count,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(brokers, ",")...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Published %s for %s", event.Type, event.ProductURL)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
