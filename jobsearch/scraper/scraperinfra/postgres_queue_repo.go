package scraperinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/pkg/kernel"
)

type PostgresQueueRepository struct {
	db *sqlx.DB
}

func NewPostgresQueueRepository(db *sqlx.DB) *PostgresQueueRepository {
	return &PostgresQueueRepository{db: db}
}

type queueItemRow struct {
	ID           string         `db:"id"`
	ConfigID     string         `db:"config_id"`
	UserID       string         `db:"user_id"`
	ResumeID     sql.NullString `db:"resume_id"`
	Status       string         `db:"status"`
	Priority     int            `db:"priority"`
	AttemptCount int            `db:"attempt_count"`
	MaxAttempts  int            `db:"max_attempts"`
	ErrorMessage sql.NullString `db:"error_message"`
	ResultStats  sql.NullString `db:"result_stats"`
	CreatedAt    time.Time      `db:"created_at"`
	StartedAt    *time.Time     `db:"started_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
	NextRetryAt  *time.Time     `db:"next_retry_at"`
}

func (r *queueItemRow) toDomain() (*scraper.QueueItem, error) {
	item := &scraper.QueueItem{
		ID:           kernel.QueueItemID(r.ID),
		ConfigID:     kernel.ConfigID(r.ConfigID),
		UserID:       kernel.UserID(r.UserID),
		ResumeID:     kernel.ResumeID(r.ResumeID.String),
		Status:       scraper.QueueStatus(r.Status),
		Priority:     r.Priority,
		AttemptCount: r.AttemptCount,
		MaxAttempts:  r.MaxAttempts,
		ErrorMessage: r.ErrorMessage.String,
		CreatedAt:    r.CreatedAt,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		NextRetryAt:  r.NextRetryAt,
	}
	if r.ResultStats.Valid && r.ResultStats.String != "" {
		var stats scraper.ResultStats
		if err := json.Unmarshal([]byte(r.ResultStats.String), &stats); err != nil {
			return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err).
				WithDetail("field", "result_stats")
		}
		item.ResultStats = &stats
	}
	return item, nil
}

func (r *PostgresQueueRepository) Create(ctx context.Context, item *scraper.QueueItem) error {
	query := `
		INSERT INTO scraper_queue (
			id, config_id, user_id, resume_id, status, priority,
			attempt_count, max_attempts, created_at, next_retry_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID.String(), item.ConfigID.String(), item.UserID.String(),
		nullable(item.ResumeID.String()), string(item.Status), item.Priority,
		item.AttemptCount, item.MaxAttempts, item.CreatedAt, item.NextRetryAt)
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeEnqueueFailed, err).
			WithDetail("queue_item_id", item.ID.String())
	}
	return nil
}

func (r *PostgresQueueRepository) GetByID(ctx context.Context, id kernel.QueueItemID) (*scraper.QueueItem, error) {
	var row queueItemRow
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM scraper_queue WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scraper.ErrQueueItemNotFound().WithDetail("queue_item_id", id.String())
	}
	if err != nil {
		return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err)
	}
	return row.toDomain()
}

// MarkProcessing claims a pending item. The status predicate in the WHERE
// clause makes the claim atomic: a second worker, or any write against a
// terminal item, affects zero rows and turns into a conflict error.
func (r *PostgresQueueRepository) MarkProcessing(ctx context.Context, id kernel.QueueItemID) error {
	query := `
		UPDATE scraper_queue
		SET status = $2, started_at = $3, attempt_count = attempt_count + 1
		WHERE id = $1 AND status = $4`
	result, err := r.db.ExecContext(ctx, query,
		id.String(), string(scraper.QueueStatusProcessing), time.Now(),
		string(scraper.QueueStatusPending))
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err).
			WithDetail("queue_item_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return r.transitionConflict(ctx, id, scraper.QueueStatusProcessing)
	}
	return nil
}

func (r *PostgresQueueRepository) MarkCompleted(ctx context.Context, id kernel.QueueItemID, stats scraper.ResultStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err)
	}

	query := `
		UPDATE scraper_queue
		SET status = $2, completed_at = $3, result_stats = $4, error_message = NULL
		WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query,
		id.String(), string(scraper.QueueStatusCompleted), time.Now(), string(raw),
		string(scraper.QueueStatusProcessing))
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err).
			WithDetail("queue_item_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return r.transitionConflict(ctx, id, scraper.QueueStatusCompleted)
	}
	return nil
}

func (r *PostgresQueueRepository) MarkFailed(ctx context.Context, id kernel.QueueItemID, errorMessage string, stats *scraper.ResultStats) error {
	var raw any
	if stats != nil {
		encoded, err := json.Marshal(stats)
		if err != nil {
			return scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err)
		}
		raw = string(encoded)
	}

	query := `
		UPDATE scraper_queue
		SET status = $2, completed_at = $3, error_message = $4, result_stats = $5
		WHERE id = $1 AND status = $6`
	result, err := r.db.ExecContext(ctx, query,
		id.String(), string(scraper.QueueStatusFailed), time.Now(), errorMessage, raw,
		string(scraper.QueueStatusProcessing))
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err).
			WithDetail("queue_item_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return r.transitionConflict(ctx, id, scraper.QueueStatusFailed)
	}
	return nil
}

func (r *PostgresQueueRepository) GetStats(ctx context.Context) (*scraper.QueueStats, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT status, COUNT(*) AS count FROM scraper_queue GROUP BY status`)
	if err != nil {
		return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err)
	}
	defer rows.Close()

	stats := &scraper.QueueStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeQueueUpdateFailed, err)
		}
		switch scraper.QueueStatus(status) {
		case scraper.QueueStatusPending:
			stats.Pending = count
		case scraper.QueueStatusProcessing:
			stats.Processing = count
		case scraper.QueueStatusCompleted:
			stats.Completed = count
		case scraper.QueueStatusFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}

// transitionConflict builds the error for a guarded update that matched
// nothing, distinguishing a missing row from an illegal transition.
func (r *PostgresQueueRepository) transitionConflict(ctx context.Context, id kernel.QueueItemID, target scraper.QueueStatus) error {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Status.IsTerminal() {
		return scraper.ErrQueueItemTerminal().
			WithDetail("queue_item_id", id.String()).
			WithDetail("status", string(item.Status))
	}
	return scraper.ErrInvalidTransition().
		WithDetail("queue_item_id", id.String()).
		WithDetail("from", string(item.Status)).
		WithDetail("to", string(target))
}
