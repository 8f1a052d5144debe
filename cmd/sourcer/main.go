package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"sourcer/internal/config"
	"sourcer/internal/logger"
	"sourcer/internal/pipeline"
	"sourcer/internal/services/lovbuy"
	"sourcer/internal/services/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logger.New(cfg.LogLevel)

	product := flag.String("product", "", "product type tag used in row identifiers (e.g. tshirt)")
	minMoq := flag.Int("minmoq", cfg.DefaultMinMoq, "minimum order quantity for pricing tiers")
	maxMoq := flag.Int("maxmoq", 0, "maximum order quantity for pricing tiers (0 = unbounded)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sourcer [flags] <1688-product-url>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	productURL := flag.Arg(0)

	if cfg.LovbuyAPIKey == "" {
		logger.Fatal("LOVBUY_API_KEY is not set; check your .env file")
	}
	if cfg.SheetID == "" {
		logger.Fatal("GOOGLE_SHEET_ID is not set; check your .env file")
	}

	ctx := context.Background()

	client := lovbuy.NewClient(cfg.LovbuyBaseURL, cfg.LovbuyAPIKey, logger)

	publisher, err := sheets.NewPublisher(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sheets publisher: %v", err)
	}

	// The CLI runs standalone: no job store, no event bus.
	svc := pipeline.New(cfg, logger, client, publisher, nil, nil)

	req := pipeline.Request{
		URL:    productURL,
		Tag:    *product,
		MinQty: minMoq,
	}
	if *maxMoq > 0 {
		req.MaxQty = maxMoq
	}

	logger.Info("Processing %s (tag=%q, minmoq=%d, maxmoq=%d)", productURL, *product, *minMoq, *maxMoq)

	outcome, err := svc.Process(ctx, req)
	if err != nil {
		logger.Fatal("Sourcing run failed: %v", err)
	}

	switch outcome.Status {
	case pipeline.StatusPublished:
		logger.Info("Published %d rows to the sheet", outcome.RowCount)
	case pipeline.StatusNoRows:
		logger.Info("No rows matched the MOQ window (%d SKUs, %d tiers found)", outcome.SkuCount, outcome.TierCount)
	}
}
