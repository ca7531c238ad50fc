package scrapersrv

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobradar/radar/jobsearch/match/matchsrv"
	"github.com/jobradar/radar/jobsearch/posting"
	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/pkg/kernel"
	"github.com/jobradar/radar/pkg/logx"
)

const (
	maxScrapePages     = 3
	defaultMaxAttempts = 3
	defaultPriority    = 5
)

// Service orchestrates scrape runs: configurations in, queue items
// through the state machine, postings and refreshed matches out.
type Service struct {
	configs  scraper.ConfigRepository
	queue    scraper.QueueRepository
	jobQueue scraper.JobQueue
	source   posting.Source
	postings posting.Repository
	resumes  resume.Repository
	matches  *matchsrv.Service
}

func NewService(
	configs scraper.ConfigRepository,
	queue scraper.QueueRepository,
	jobQueue scraper.JobQueue,
	source posting.Source,
	postings posting.Repository,
	resumes resume.Repository,
	matches *matchsrv.Service,
) *Service {
	return &Service{
		configs:  configs,
		queue:    queue,
		jobQueue: jobQueue,
		source:   source,
		postings: postings,
		resumes:  resumes,
		matches:  matches,
	}
}

// ============================================================================
// Configuration Operations
// ============================================================================

// CreateConfiguration validates and saves a new search configuration.
func (s *Service) CreateConfiguration(ctx context.Context, req scraper.CreateConfigRequest) (*scraper.Configuration, error) {
	if req.UserID.IsEmpty() || req.Name == "" || len(req.Keywords) == 0 {
		return nil, scraper.ErrInvalidConfig().
			WithDetail("reason", "user_id, name, and at least one keyword are required")
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = scraper.FrequencyManual
	}

	now := time.Now()
	config := &scraper.Configuration{
		ID:               kernel.NewConfigID(uuid.New().String()),
		UserID:           req.UserID,
		Name:             req.Name,
		Keywords:         req.Keywords,
		Location:         req.Location,
		Remote:           req.Remote,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		JobTypes:         req.JobTypes,
		Industries:       req.Industries,
		ExperienceLevels: req.ExperienceLevels,
		EmailAlerts:      req.EmailAlerts,
		Frequency:        frequency,
		IsActive:         req.IsActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.configs.Create(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// GetConfiguration retrieves a configuration.
func (s *Service) GetConfiguration(ctx context.Context, id kernel.ConfigID) (*scraper.Configuration, error) {
	return s.configs.GetByID(ctx, id)
}

// ListConfigurations returns a user's configurations.
func (s *Service) ListConfigurations(ctx context.Context, userID kernel.UserID) ([]scraper.Configuration, error) {
	return s.configs.ListByUserID(ctx, userID)
}

// DeleteConfiguration removes a configuration.
func (s *Service) DeleteConfiguration(ctx context.Context, id kernel.ConfigID) error {
	return s.configs.Delete(ctx, id)
}

// ListDueConfigurations returns the active configurations whose frequency
// says a scheduled run is owed.
func (s *Service) ListDueConfigurations(ctx context.Context, now time.Time) ([]scraper.Configuration, error) {
	active, err := s.configs.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	due := make([]scraper.Configuration, 0, len(active))
	for i := range active {
		if active[i].IsDue(now) {
			due = append(due, active[i])
		}
	}
	return due, nil
}

// ============================================================================
// Queue Operations
// ============================================================================

// EnqueueRun creates a pending queue item for a configuration and pushes
// it to the workers. A non-empty resumeID pins the post-run match refresh
// to that resume. The configuration's last-run stamp is not touched here;
// it belongs to run completion.
func (s *Service) EnqueueRun(ctx context.Context, configID kernel.ConfigID, priority int, resumeID kernel.ResumeID) (*scraper.RunResponse, error) {
	config, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if priority <= 0 {
		priority = defaultPriority
	}

	item := &scraper.QueueItem{
		ID:          kernel.NewQueueItemID(uuid.New().String()),
		ConfigID:    config.ID,
		UserID:      config.UserID,
		ResumeID:    resumeID,
		Status:      scraper.QueueStatusPending,
		Priority:    priority,
		MaxAttempts: defaultMaxAttempts,
		CreatedAt:   time.Now(),
	}
	if err := s.queue.Create(ctx, item); err != nil {
		return nil, err
	}

	if err := s.jobQueue.Enqueue(ctx, item.ID); err != nil {
		// The row exists but the workers will never see it; surface
		// the failure instead of leaving a stuck pending item.
		_ = s.queue.MarkProcessing(ctx, item.ID)
		_ = s.queue.MarkFailed(ctx, item.ID, "enqueue failed: "+err.Error(), nil)
		return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeEnqueueFailed, err).
			WithDetail("queue_item_id", item.ID.String())
	}

	logx.Infof("Enqueued scrape run %s for config %s (priority %d)",
		item.ID.String(), config.ID.String(), priority)

	return &scraper.RunResponse{
		QueueItemID: item.ID,
		ConfigID:    config.ID,
		Status:      item.Status,
		Priority:    item.Priority,
	}, nil
}

// GetQueueItem returns the current state of a queue item.
func (s *Service) GetQueueItem(ctx context.Context, id kernel.QueueItemID) (*scraper.QueueItemResponse, error) {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &scraper.QueueItemResponse{
		QueueItemID:  item.ID,
		ConfigID:     item.ConfigID,
		Status:       item.Status,
		AttemptCount: item.AttemptCount,
		ErrorMessage: item.ErrorMessage,
		ResultStats:  item.ResultStats,
		CreatedAt:    item.CreatedAt,
		StartedAt:    item.StartedAt,
		CompletedAt:  item.CompletedAt,
		NextRetryAt:  item.NextRetryAt,
	}, nil
}

// GetQueueStats counts queue items by status.
func (s *Service) GetQueueStats(ctx context.Context) (*scraper.QueueStats, error) {
	return s.queue.GetStats(ctx)
}

// ============================================================================
// Run Processing (called by workers)
// ============================================================================

// ProcessQueueItem executes one scrape run end to end. The guarded claim
// makes it safe to call with IDs that were already claimed, completed, or
// failed by someone else.
func (s *Service) ProcessQueueItem(ctx context.Context, id kernel.QueueItemID) error {
	if err := s.queue.MarkProcessing(ctx, id); err != nil {
		return err
	}

	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return err
	}

	config, err := s.configs.GetByID(ctx, item.ConfigID)
	if err != nil {
		return s.handleRunError(ctx, item, "config_lookup_failed", err, nil)
	}

	stats, err := s.runScrape(ctx, config)
	if err != nil {
		return s.handleRunError(ctx, item, "scrape_failed", err, stats)
	}

	// Matching is downstream of a successful scrape and soft: a user
	// without a parsed resume still gets their postings saved.
	s.refreshMatchesSoft(ctx, item)

	if err := s.queue.MarkCompleted(ctx, id, *stats); err != nil {
		logx.Errorf("Failed to mark queue item %s completed: %v", id.String(), err)
		return err
	}

	if err := s.configs.TouchLastRun(ctx, config.ID, time.Now()); err != nil {
		logx.Warnf("failed to stamp last run for config %s: %v", config.ID.String(), err)
	}

	logx.Infof("Scrape run %s completed: %d pages, %d found, %d saved",
		id.String(), stats.PagesScraped, stats.JobsFound, stats.JobsSaved)
	return nil
}

// runScrape drives page-by-page fetching and best-effort persistence.
// On failure the stats accumulated so far come back alongside the error
// so the failed run still records what it managed.
func (s *Service) runScrape(ctx context.Context, config *scraper.Configuration) (*scraper.ResultStats, error) {
	stats := &scraper.ResultStats{}
	collected := make([]posting.JobPosting, 0, 64)

	for page := 1; page <= maxScrapePages; page++ {
		result, err := s.source.FetchPage(ctx, posting.SearchQuery{
			Keywords:  config.Keywords,
			Location:  config.Location,
			Remote:    config.Remote,
			SalaryMin: config.SalaryMin,
			JobTypes:  config.JobTypes,
			Page:      page,
		})
		if err != nil {
			s.savePartial(ctx, collected, stats)
			return stats, fmt.Errorf("page %d: %w", page, err)
		}
		stats.PagesScraped++
		stats.JobsFound += len(result.Postings)
		collected = append(collected, result.Postings...)

		if !result.HasMore || len(result.Postings) == 0 {
			break
		}
	}

	if len(collected) > 0 {
		report, err := s.postings.SaveAll(ctx, collected)
		if err != nil {
			return stats, fmt.Errorf("save postings: %w", err)
		}
		stats.JobsSaved = report.Saved
	}
	return stats, nil
}

// savePartial persists whatever a failed run fetched before breaking.
func (s *Service) savePartial(ctx context.Context, collected []posting.JobPosting, stats *scraper.ResultStats) {
	if len(collected) == 0 {
		return
	}
	report, err := s.postings.SaveAll(ctx, collected)
	if err != nil {
		logx.Warnf("failed to save partial scrape results: %v", err)
		return
	}
	stats.JobsSaved = report.Saved
}

// refreshMatchesSoft rebuilds matches for the run's resume, or the user's
// latest parsed one when the run did not pin a resume. Any failure is
// logged and swallowed; match staleness never fails a run.
func (s *Service) refreshMatchesSoft(ctx context.Context, item *scraper.QueueItem) {
	var resumeModel *resume.Resume
	var err error
	if !item.ResumeID.IsEmpty() {
		resumeModel, err = s.resumes.GetByID(ctx, item.ResumeID)
	} else {
		resumeModel, err = s.resumes.GetByUserID(ctx, item.UserID)
	}
	if err != nil {
		logx.Debugf("no resume for user %s, skipping match refresh: %v", item.UserID.String(), err)
		return
	}
	if !resumeModel.IsParsed() {
		logx.Debugf("resume %s not parsed yet, skipping match refresh", resumeModel.ID.String())
		return
	}
	if _, err := s.matches.RefreshMatches(ctx, item.UserID, resumeModel.ID); err != nil {
		logx.Warnf("match refresh failed for user %s: %v", item.UserID.String(), err)
	}
}

// handleRunError fails the current item terminally, mirrors the error
// onto the configuration, and while retry budget remains spawns a fresh
// pending item with backoff. Completed and failed stay terminal; a retry
// is always a new queue item.
func (s *Service) handleRunError(ctx context.Context, item *scraper.QueueItem, errorType string, err error, stats *scraper.ResultStats) error {
	// MarkProcessing already bumped the attempt count in storage and the
	// item was loaded after that, so AttemptCount is this attempt's number.
	attempt := item.AttemptCount
	message := fmt.Sprintf("%s: %v", errorType, err)

	if markErr := s.queue.MarkFailed(ctx, item.ID, message, stats); markErr != nil {
		logx.Errorf("Failed to mark item %s failed: %v", item.ID.String(), markErr)
		return markErr
	}
	if cfgErr := s.configs.SetLastError(ctx, item.ConfigID, message); cfgErr != nil {
		logx.Warnf("failed to record run error on config %s: %v", item.ConfigID.String(), cfgErr)
	}

	if attempt < item.MaxAttempts {
		retryDelay := time.Duration(1<<uint(attempt)) * time.Minute
		nextRetry := time.Now().Add(retryDelay)

		retry := &scraper.QueueItem{
			ID:           kernel.NewQueueItemID(uuid.New().String()),
			ConfigID:     item.ConfigID,
			UserID:       item.UserID,
			ResumeID:     item.ResumeID,
			Status:       scraper.QueueStatusPending,
			Priority:     item.Priority,
			AttemptCount: attempt,
			MaxAttempts:  item.MaxAttempts,
			CreatedAt:    time.Now(),
			NextRetryAt:  &nextRetry,
		}
		if createErr := s.queue.Create(ctx, retry); createErr != nil {
			logx.Errorf("Failed to create retry item for %s: %v", item.ID.String(), createErr)
			return createErr
		}
		if queueErr := s.jobQueue.EnqueueDelayed(ctx, retry.ID, retryDelay); queueErr != nil {
			logx.Errorf("Failed to schedule retry item %s: %v", retry.ID.String(), queueErr)
			_ = s.queue.MarkProcessing(ctx, retry.ID)
			_ = s.queue.MarkFailed(ctx, retry.ID, fmt.Sprintf("%s (retry enqueue failed): %v", errorType, err), nil)
			return queueErr
		}

		logx.Warnf("Scrape run failed, retry queued: item=%s retry=%s attempt=%d/%d next=%v error=%v",
			item.ID.String(), retry.ID.String(), attempt, item.MaxAttempts, nextRetry, err)
		return scraper.ErrScrapeRunFailed().
			WithDetail("queue_item_id", item.ID.String()).
			WithDetail("retry_queue_item_id", retry.ID.String()).
			WithDetail("error_type", errorType).
			WithDetail("next_retry_at", nextRetry)
	}

	logx.Errorf("Scrape run permanently failed: item=%s attempts=%d/%d error=%v",
		item.ID.String(), attempt, item.MaxAttempts, err)
	return scraper.ErrMaxRetriesExceeded().
		WithDetail("queue_item_id", item.ID.String()).
		WithDetail("error_type", errorType)
}
