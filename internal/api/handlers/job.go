package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sourcer/internal/logger"
	"sourcer/internal/models"
)

type JobHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewJobHandler(db *gorm.DB, logger *logger.Logger) *JobHandler {
	return &JobHandler{
		db:     db,
		logger: logger,
	}
}

func (h *JobHandler) List(c *gin.Context) {
	var jobs []models.SourcingJob

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	// Filters
	status := c.Query("status")
	tag := c.Query("tag")

	query := h.db.Model(&models.SourcingJob{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if tag != "" {
		query = query.Where("tag = ?", tag)
	}

	var total int64
	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": jobs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *JobHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var job models.SourcingJob
	if err := h.db.First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": job})
}
