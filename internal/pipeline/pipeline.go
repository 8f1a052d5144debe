// Package pipeline orchestrates one sourcing run: fetch a product, reconcile
// its SKUs and price tiers into rows, publish the rows, and record the
// outcome. Every invocation yields exactly one outcome - published with a
// row count, no rows after filtering, or a failure - never a partial state.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sourcer/internal/config"
	"sourcer/internal/events"
	"sourcer/internal/logger"
	"sourcer/internal/models"
	"sourcer/internal/pricing"
)

type Request struct {
	URL    string
	Tag    string
	MinQty *int
	MaxQty *int
}

type Status string

const (
	StatusPublished Status = "PUBLISHED"
	StatusNoRows    Status = "NO_ROWS"
)

// Outcome reports what a run did. SkuCount and TierCount let callers tell
// "nothing matched the filter" apart from "fetch came back empty".
type Outcome struct {
	Status    Status `json:"status"`
	JobID     string `json:"job_id,omitempty"`
	RowCount  int    `json:"row_count"`
	SkuCount  int    `json:"sku_count"`
	TierCount int    `json:"tier_count"`
}

// Fetcher resolves a product URL to the canonical product model.
type Fetcher interface {
	ProductByURL(ctx context.Context, productURL string) (*models.Product, error)
}

// Publisher renders rows into the destination and exposes the identifiers
// already present there.
type Publisher interface {
	ListIdentifiers(ctx context.Context) ([]string, error)
	Publish(ctx context.Context, rows []models.OutputRow, groups []models.RowGroup) error
}

// EventSink publishes lifecycle events. Optional; a nil sink disables them.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	fetcher   Fetcher
	publisher Publisher
	db        *gorm.DB
	events    EventSink
	markup    decimal.Decimal
	now       func() time.Time
}

// New wires a pipeline service. db and sink may be nil (the CLI runs without
// either); the fetcher and publisher are required.
func New(cfg *config.Config, logger *logger.Logger, fetcher Fetcher, publisher Publisher, db *gorm.DB, sink EventSink) *Service {
	return &Service{
		config:    cfg,
		logger:    logger,
		fetcher:   fetcher,
		publisher: publisher,
		db:        db,
		events:    sink,
		markup:    pricing.ParseMarkup(cfg.Markup),
		now:       time.Now,
	}
}

// Process runs the full pipeline for one product. Collaborator failures are
// recorded and propagated; they are never retried here.
func (s *Service) Process(ctx context.Context, req Request) (*Outcome, error) {
	job := &models.SourcingJob{
		ProductURL: req.URL,
		Tag:        req.Tag,
		MinQty:     req.MinQty,
		MaxQty:     req.MaxQty,
		Status:     string(models.JobStatusQueued),
	}

	product, err := s.fetcher.ProductByURL(ctx, req.URL)
	if err != nil {
		return nil, s.fail(ctx, job, fmt.Errorf("failed to fetch product: %w", err))
	}

	job.OfferID = product.OfferID
	job.SkuCount = len(product.Skus)
	job.TierCount = len(product.Tiers)
	s.logger.Info("Fetched offer %s: %d SKUs, %d tiers", product.OfferID, job.SkuCount, job.TierCount)

	tiers := pricing.FilterTiers(product.Tiers, req.MinQty, req.MaxQty)
	if len(tiers) == 0 && product.DirectPrice != "" {
		// The window excluded every tier but the product carries its own
		// price: keep the listing priced with a single synthesized tier.
		tiers = []models.PriceTier{{
			StartQuantity: product.DefaultMoq,
			UnitPrice:     product.DirectPrice,
		}}
	}

	existing, err := s.publisher.ListIdentifiers(ctx)
	if err != nil {
		return nil, s.fail(ctx, job, fmt.Errorf("failed to read existing identifiers: %w", err))
	}
	seq := pricing.NewSequencer(existing, s.now(), req.Tag)

	fallback := pricing.Fallback{
		ImageURL:   product.ImageURL,
		Info:       product.Title,
		Material:   product.Material,
		DefaultMoq: product.DefaultMoq,
		SourceURL:  req.URL,
	}

	rows := pricing.BuildRows(product.Skus, tiers, fallback, seq, s.markup)
	rows = pricing.FilterRows(rows, req.MinQty, req.MaxQty, product.DefaultMoq)

	if len(rows) == 0 {
		job.Status = string(models.JobStatusNoRows)
		s.record(ctx, job)
		s.emit(ctx, events.Event{
			Type:       events.TypeNoRows,
			JobID:      job.ID,
			ProductURL: req.URL,
			Tag:        req.Tag,
		})
		s.logger.Info("No rows left after MOQ filtering for offer %s", product.OfferID)
		return &Outcome{
			Status:    StatusNoRows,
			JobID:     job.ID,
			SkuCount:  job.SkuCount,
			TierCount: job.TierCount,
		}, nil
	}

	groups := pricing.GroupRows(rows)
	if err := s.publisher.Publish(ctx, rows, groups); err != nil {
		return nil, s.fail(ctx, job, fmt.Errorf("failed to publish rows: %w", err))
	}

	job.Status = string(models.JobStatusPublished)
	job.RowCount = len(rows)
	s.record(ctx, job)
	s.emit(ctx, events.Event{
		Type:       events.TypeCompleted,
		JobID:      job.ID,
		ProductURL: req.URL,
		Tag:        req.Tag,
		RowCount:   len(rows),
	})

	return &Outcome{
		Status:    StatusPublished,
		JobID:     job.ID,
		RowCount:  len(rows),
		SkuCount:  job.SkuCount,
		TierCount: job.TierCount,
	}, nil
}

func (s *Service) fail(ctx context.Context, job *models.SourcingJob, err error) error {
	msg := err.Error()
	job.Status = string(models.JobStatusFailed)
	job.Error = &msg
	s.record(ctx, job)
	s.emit(ctx, events.Event{
		Type:       events.TypeFailed,
		JobID:      job.ID,
		ProductURL: job.ProductURL,
		Tag:        job.Tag,
		Error:      msg,
	})
	return err
}

// record persists the job when a store is configured. A store failure is
// logged, not returned: the sheet update already happened (or failed for its
// own reason) and the audit row must not change the run's outcome.
func (s *Service) record(ctx context.Context, job *models.SourcingJob) {
	if s.db == nil {
		return
	}
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		s.logger.Error("Failed to record sourcing job: %v", err)
	}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish %s event: %v", event.Type, err)
	}
}
