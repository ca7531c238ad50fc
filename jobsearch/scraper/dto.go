package scraper

import (
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

// ============================================================================
// Request DTOs
// ============================================================================

// CreateConfigRequest - Request to save a new search configuration
type CreateConfigRequest struct {
	UserID           kernel.UserID `json:"user_id" validate:"required"`
	Name             string        `json:"name" validate:"required"`
	Keywords         []string      `json:"keywords" validate:"required,min=1"`
	Location         string        `json:"location"`
	Remote           bool          `json:"remote"`
	SalaryMin        int           `json:"salary_min"`
	SalaryMax        int           `json:"salary_max"`
	JobTypes         []string      `json:"job_types"`
	Industries       []string      `json:"industries"`
	ExperienceLevels []string      `json:"experience_levels"`
	EmailAlerts      bool          `json:"email_alerts"`
	Frequency        Frequency     `json:"frequency"`
	IsActive         bool          `json:"is_active"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// RunResponse - Returned when a scrape run is enqueued
type RunResponse struct {
	QueueItemID kernel.QueueItemID `json:"queue_item_id"`
	ConfigID    kernel.ConfigID    `json:"config_id"`
	Status      QueueStatus        `json:"status"`
	Priority    int                `json:"priority"`
}

// QueueItemResponse - Status of one queue item
type QueueItemResponse struct {
	QueueItemID  kernel.QueueItemID `json:"queue_item_id"`
	ConfigID     kernel.ConfigID    `json:"config_id"`
	Status       QueueStatus        `json:"status"`
	AttemptCount int                `json:"attempt_count"`
	ErrorMessage string             `json:"error_message,omitempty"`
	ResultStats  *ResultStats       `json:"result_stats,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	NextRetryAt  *time.Time         `json:"next_retry_at,omitempty"`
}
