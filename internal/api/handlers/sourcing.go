package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sourcer/internal/config"
	"sourcer/internal/events"
	"sourcer/internal/logger"
	"sourcer/internal/pipeline"
	"sourcer/internal/services/lovbuy"
)

type SourcingHandler struct {
	pipeline *pipeline.Service
	events   *events.Publisher
	config   *config.Config
	logger   *logger.Logger
}

func NewSourcingHandler(svc *pipeline.Service, pub *events.Publisher, cfg *config.Config, logger *logger.Logger) *SourcingHandler {
	return &SourcingHandler{
		pipeline: svc,
		events:   pub,
		config:   cfg,
		logger:   logger,
	}
}

type sourcingRequest struct {
	URL    string `json:"url" binding:"required"`
	Tag    string `json:"product_tag"`
	MinMoq *int   `json:"min_moq"`
	MaxMoq *int   `json:"max_moq"`
}

func (r *sourcingRequest) toPipeline(defaultMin int) pipeline.Request {
	req := pipeline.Request{
		URL:    r.URL,
		Tag:    r.Tag,
		MinQty: r.MinMoq,
		MaxQty: r.MaxMoq,
	}
	if req.MinQty == nil {
		req.MinQty = &defaultMin
	}
	return req
}

// Run processes a product synchronously and returns its outcome.
func (h *SourcingHandler) Run(c *gin.Context) {
	var req sourcingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.pipeline.Process(c.Request.Context(), req.toPipeline(h.config.DefaultMinMoq))
	if err != nil {
		if errors.Is(err, lovbuy.ErrNoOfferID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": outcome})
}

// Enqueue publishes a sourcing request for the worker to pick up.
func (h *SourcingHandler) Enqueue(c *gin.Context) {
	var req sourcingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := lovbuy.ExtractOfferID(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := req.toPipeline(h.config.DefaultMinMoq)
	err := h.events.Publish(c.Request.Context(), events.Event{
		Type:       events.TypeRequested,
		ProductURL: p.URL,
		Tag:        p.Tag,
		MinQty:     p.MinQty,
		MaxQty:     p.MaxQty,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to enqueue sourcing request"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
