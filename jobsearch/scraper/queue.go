package scraper

import (
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusFailed     QueueStatus = "failed"
)

// CanTransitionTo is the single source of truth for queue item lifecycle.
// Completed and failed are terminal; nothing leaves them.
func (s QueueStatus) CanTransitionTo(target QueueStatus) bool {
	switch s {
	case QueueStatusPending:
		return target == QueueStatusProcessing
	case QueueStatusProcessing:
		return target == QueueStatusCompleted || target == QueueStatusFailed
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s QueueStatus) IsTerminal() bool {
	return s == QueueStatusCompleted || s == QueueStatusFailed
}

// ResultStats is what a completed scrape run produced.
type ResultStats struct {
	PagesScraped int `json:"pagesScraped"`
	JobsFound    int `json:"jobsFound"`
	JobsSaved    int `json:"jobsSaved"`
}

// QueueItem is one scheduled or running scrape of a configuration.
type QueueItem struct {
	ID       kernel.QueueItemID `db:"id" json:"id"`
	ConfigID kernel.ConfigID    `db:"config_id" json:"config_id"`
	UserID   kernel.UserID      `db:"user_id" json:"user_id"`

	// ResumeID optionally pins the post-run match refresh to a specific
	// resume instead of the user's latest.
	ResumeID kernel.ResumeID `db:"resume_id" json:"resume_id,omitempty"`

	Status   QueueStatus `db:"status" json:"status"`
	Priority int         `db:"priority" json:"priority"`

	AttemptCount int `db:"attempt_count" json:"attempt_count"`
	MaxAttempts  int `db:"max_attempts" json:"max_attempts"`

	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
	ResultStats  *ResultStats `db:"result_stats" json:"result_stats,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	StartedAt   *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	NextRetryAt *time.Time `db:"next_retry_at" json:"next_retry_at,omitempty"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// TransitionTo validates and applies a status change, stamping the
// lifecycle timestamps as a side effect. Illegal transitions, including
// any write to a terminal item, return a conflict error.
func (q *QueueItem) TransitionTo(target QueueStatus, now time.Time) error {
	if !q.Status.CanTransitionTo(target) {
		return ErrInvalidTransition().
			WithDetail("queue_item_id", q.ID.String()).
			WithDetail("from", string(q.Status)).
			WithDetail("to", string(target))
	}
	q.Status = target
	switch target {
	case QueueStatusProcessing:
		q.StartedAt = &now
	case QueueStatusCompleted, QueueStatusFailed:
		q.CompletedAt = &now
	}
	return nil
}

// CanRetry reports whether a failed attempt still has retry budget.
func (q *QueueItem) CanRetry() bool {
	return q.AttemptCount < q.MaxAttempts
}
