package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SourcingJob struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductURL string    `json:"product_url" gorm:"not null"`
	OfferID    string    `json:"offer_id"`
	Tag        string    `json:"tag"`
	MinQty     *int      `json:"min_qty"`
	MaxQty     *int      `json:"max_qty"`
	Status     string    `json:"status" gorm:"default:QUEUED"`
	RowCount   int       `json:"row_count"`
	SkuCount   int       `json:"sku_count"`
	TierCount  int       `json:"tier_count"`
	Error      *string   `json:"error"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusPublished JobStatus = "PUBLISHED"
	JobStatusNoRows    JobStatus = "NO_ROWS"
	JobStatusFailed    JobStatus = "FAILED"
)

func (j *SourcingJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}
