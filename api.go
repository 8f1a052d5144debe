// Package handler is the serverless entry point (Vercel-style): one exported
// Handler serving the sourcing API without the long-running gin server.
// It keeps its own database/sql job log so a cold instance needs nothing but
// environment variables.
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"sourcer/internal/config"
	"sourcer/internal/logger"
	"sourcer/internal/pipeline"
	"sourcer/internal/services/lovbuy"
	"sourcer/internal/services/sheets"
)

var (
	setupOnce sync.Once
	setupErr  error

	cfg *config.Config
	log *logger.Logger
	db  *sql.DB
	svc *pipeline.Service
)

func initDB() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" || strings.HasPrefix(databaseURL, "sqlite://") {
		// No shared database in this deployment; job history is disabled.
		return nil
	}

	var err error
	db, err = sql.Open("postgres", databaseURL)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS sourcing_jobs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_url TEXT NOT NULL,
		offer_id TEXT,
		tag TEXT,
		min_qty INTEGER,
		max_qty INTEGER,
		status TEXT DEFAULT 'QUEUED',
		row_count INTEGER DEFAULT 0,
		sku_count INTEGER DEFAULT 0,
		tier_count INTEGER DEFAULT 0,
		error TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);`)
	return err
}

func setup(ctx context.Context) error {
	setupOnce.Do(func() {
		cfg, setupErr = config.Load()
		if setupErr != nil {
			return
		}
		log = logger.New(cfg.LogLevel)

		if setupErr = initDB(); setupErr != nil {
			return
		}

		client := lovbuy.NewClient(cfg.LovbuyBaseURL, cfg.LovbuyAPIKey, log)

		var publisher *sheets.Publisher
		publisher, setupErr = sheets.NewPublisher(ctx, cfg, log)
		if setupErr != nil {
			return
		}

		// No gorm store and no event bus here; the job log below is enough
		// for a serverless deployment.
		svc = pipeline.New(cfg, log, client, publisher, nil, nil)
	})
	return setupErr
}

// Handler routes the serverless API.
func Handler(w http.ResponseWriter, r *http.Request) {
	if err := setup(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	switch {
	case r.URL.Path == "/api/health":
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	case r.URL.Path == "/api/jobs" && r.Method == http.MethodGet:
		listJobs(w, r)
	case r.URL.Path == "/api/sourcing" && r.Method == http.MethodPost:
		runSourcing(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": "not found"})
	}
}

type sourcingRequest struct {
	URL    string `json:"url"`
	Tag    string `json:"product_tag"`
	MinMoq *int   `json:"min_moq"`
	MaxMoq *int   `json:"max_moq"`
}

func runSourcing(w http.ResponseWriter, r *http.Request) {
	var req sourcingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "url is required"})
		return
	}

	p := pipeline.Request{URL: req.URL, Tag: req.Tag, MinQty: req.MinMoq, MaxQty: req.MaxMoq}
	if p.MinQty == nil {
		min := cfg.DefaultMinMoq
		p.MinQty = &min
	}

	outcome, err := svc.Process(r.Context(), p)
	if err != nil {
		recordJob(r.Context(), p, "FAILED", 0, err)
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{"error": err.Error()})
		return
	}

	recordJob(r.Context(), p, string(outcome.Status), outcome.RowCount, nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": outcome})
}

func recordJob(ctx context.Context, req pipeline.Request, status string, rowCount int, runErr error) {
	if db == nil {
		return
	}
	var errText *string
	if runErr != nil {
		s := runErr.Error()
		errText = &s
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO sourcing_jobs (id, product_url, tag, min_qty, max_qty, status, row_count, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		uuid.New().String(), req.URL, req.Tag, req.MinQty, req.MaxQty, status, rowCount, errText, time.Now())
	if err != nil {
		log.Error("Failed to record job: %v", err)
	}
}

func listJobs(w http.ResponseWriter, r *http.Request) {
	if db == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": []interface{}{}})
		return
	}

	rows, err := db.QueryContext(r.Context(), `
		SELECT id, product_url, tag, status, row_count, created_at
		FROM sourcing_jobs ORDER BY created_at DESC LIMIT 50`)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "failed to fetch jobs"})
		return
	}
	defer rows.Close()

	jobs := []map[string]interface{}{}
	for rows.Next() {
		var (
			id, productURL, tag, status string
			rowCount                    int
			createdAt                   time.Time
		)
		if err := rows.Scan(&id, &productURL, &tag, &status, &rowCount, &createdAt); err != nil {
			continue
		}
		jobs = append(jobs, map[string]interface{}{
			"id":          id,
			"product_url": productURL,
			"tag":         tag,
			"status":      status,
			"row_count":   rowCount,
			"created_at":  createdAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": jobs})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
