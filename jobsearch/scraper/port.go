package scraper

import (
	"context"
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

type ConfigRepository interface {
	// Create inserts a configuration.
	Create(ctx context.Context, config *Configuration) error

	// GetByID retrieves a configuration.
	GetByID(ctx context.Context, id kernel.ConfigID) (*Configuration, error)

	// ListByUserID retrieves a user's configurations, newest first.
	ListByUserID(ctx context.Context, userID kernel.UserID) ([]Configuration, error)

	// ListActive retrieves every active configuration, for the
	// scheduler's due check.
	ListActive(ctx context.Context) ([]Configuration, error)

	// Update persists configuration changes.
	Update(ctx context.Context, config *Configuration) error

	// TouchLastRun stamps the completion time of a run and clears any
	// earlier run error.
	TouchLastRun(ctx context.Context, id kernel.ConfigID, at time.Time) error

	// SetLastError mirrors a failed run's error onto the configuration.
	SetLastError(ctx context.Context, id kernel.ConfigID, message string) error

	// Delete removes a configuration.
	Delete(ctx context.Context, id kernel.ConfigID) error
}

// QueueStats are item counts by status.
type QueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

type QueueRepository interface {
	// Create inserts a queue item in pending status.
	Create(ctx context.Context, item *QueueItem) error

	// GetByID retrieves a queue item.
	GetByID(ctx context.Context, id kernel.QueueItemID) (*QueueItem, error)

	// MarkProcessing moves pending -> processing with a guarded write:
	// the update only lands when the row is still pending, so terminal
	// and already-claimed items reject the claim.
	MarkProcessing(ctx context.Context, id kernel.QueueItemID) error

	// MarkCompleted moves processing -> completed and records the run's
	// result stats, guarded the same way.
	MarkCompleted(ctx context.Context, id kernel.QueueItemID, stats ResultStats) error

	// MarkFailed moves processing -> failed with the error message,
	// guarded the same way. Stats carries whatever the run managed
	// before failing; nil records none.
	MarkFailed(ctx context.Context, id kernel.QueueItemID, errorMessage string, stats *ResultStats) error

	// GetStats counts items by status.
	GetStats(ctx context.Context) (*QueueStats, error)
}

// JobQueue is the wire queue the workers consume. Only queue item IDs
// travel through it; state lives in the repository.
type JobQueue interface {
	// Enqueue pushes an item ID for immediate processing.
	Enqueue(ctx context.Context, id kernel.QueueItemID) error

	// EnqueueDelayed schedules an item ID to become ready after delay.
	EnqueueDelayed(ctx context.Context, id kernel.QueueItemID, delay time.Duration) error

	// Dequeue blocks up to timeout for the next ready item ID. Returns
	// ("", nil) on timeout.
	Dequeue(ctx context.Context, timeout time.Duration) (kernel.QueueItemID, error)

	// MoveDelayedToReady promotes delayed items whose time has come.
	MoveDelayedToReady(ctx context.Context) (int, error)

	// Ping verifies queue connectivity.
	Ping(ctx context.Context) error
}
