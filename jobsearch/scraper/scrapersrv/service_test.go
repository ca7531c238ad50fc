package scrapersrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobradar/radar/jobsearch/match"
	"github.com/jobradar/radar/jobsearch/match/matchsrv"
	"github.com/jobradar/radar/jobsearch/posting"
	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/pkg/errx"
	"github.com/jobradar/radar/pkg/kernel"
)

// ----------------------------------------------------------------------------
// Fakes
// ----------------------------------------------------------------------------

type fakeConfigRepo struct {
	byID map[string]*scraper.Configuration
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{byID: make(map[string]*scraper.Configuration)}
}

func (f *fakeConfigRepo) Create(ctx context.Context, config *scraper.Configuration) error {
	f.byID[config.ID.String()] = config
	return nil
}

func (f *fakeConfigRepo) GetByID(ctx context.Context, id kernel.ConfigID) (*scraper.Configuration, error) {
	c, ok := f.byID[id.String()]
	if !ok {
		return nil, scraper.ErrConfigNotFound()
	}
	return c, nil
}

func (f *fakeConfigRepo) ListByUserID(ctx context.Context, userID kernel.UserID) ([]scraper.Configuration, error) {
	out := make([]scraper.Configuration, 0, len(f.byID))
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConfigRepo) ListActive(ctx context.Context) ([]scraper.Configuration, error) {
	out := make([]scraper.Configuration, 0, len(f.byID))
	for _, c := range f.byID {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConfigRepo) Update(ctx context.Context, config *scraper.Configuration) error {
	f.byID[config.ID.String()] = config
	return nil
}

func (f *fakeConfigRepo) TouchLastRun(ctx context.Context, id kernel.ConfigID, at time.Time) error {
	if c, ok := f.byID[id.String()]; ok {
		c.LastRunAt = &at
		c.LastError = ""
	}
	return nil
}

func (f *fakeConfigRepo) SetLastError(ctx context.Context, id kernel.ConfigID, message string) error {
	if c, ok := f.byID[id.String()]; ok {
		c.LastError = message
	}
	return nil
}

func (f *fakeConfigRepo) Delete(ctx context.Context, id kernel.ConfigID) error {
	delete(f.byID, id.String())
	return nil
}

// fakeQueueRepo enforces the same guarded transitions as the SQL repo.
type fakeQueueRepo struct {
	byID map[string]*scraper.QueueItem
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{byID: make(map[string]*scraper.QueueItem)}
}

func (f *fakeQueueRepo) Create(ctx context.Context, item *scraper.QueueItem) error {
	cp := *item
	f.byID[item.ID.String()] = &cp
	return nil
}

func (f *fakeQueueRepo) GetByID(ctx context.Context, id kernel.QueueItemID) (*scraper.QueueItem, error) {
	item, ok := f.byID[id.String()]
	if !ok {
		return nil, scraper.ErrQueueItemNotFound()
	}
	cp := *item
	return &cp, nil
}

func (f *fakeQueueRepo) MarkProcessing(ctx context.Context, id kernel.QueueItemID) error {
	item, ok := f.byID[id.String()]
	if !ok {
		return scraper.ErrQueueItemNotFound()
	}
	if item.Status != scraper.QueueStatusPending {
		return scraper.ErrInvalidTransition()
	}
	now := time.Now()
	item.Status = scraper.QueueStatusProcessing
	item.StartedAt = &now
	item.AttemptCount++
	return nil
}

func (f *fakeQueueRepo) MarkCompleted(ctx context.Context, id kernel.QueueItemID, stats scraper.ResultStats) error {
	item, ok := f.byID[id.String()]
	if !ok {
		return scraper.ErrQueueItemNotFound()
	}
	if item.Status != scraper.QueueStatusProcessing {
		return scraper.ErrInvalidTransition()
	}
	now := time.Now()
	item.Status = scraper.QueueStatusCompleted
	item.CompletedAt = &now
	item.ResultStats = &stats
	return nil
}

func (f *fakeQueueRepo) MarkFailed(ctx context.Context, id kernel.QueueItemID, errorMessage string, stats *scraper.ResultStats) error {
	item, ok := f.byID[id.String()]
	if !ok {
		return scraper.ErrQueueItemNotFound()
	}
	if item.Status != scraper.QueueStatusProcessing {
		return scraper.ErrInvalidTransition()
	}
	now := time.Now()
	item.Status = scraper.QueueStatusFailed
	item.CompletedAt = &now
	item.ErrorMessage = errorMessage
	item.ResultStats = stats
	return nil
}

func (f *fakeQueueRepo) GetStats(ctx context.Context) (*scraper.QueueStats, error) {
	stats := &scraper.QueueStats{}
	for _, item := range f.byID {
		switch item.Status {
		case scraper.QueueStatusPending:
			stats.Pending++
		case scraper.QueueStatusProcessing:
			stats.Processing++
		case scraper.QueueStatusCompleted:
			stats.Completed++
		case scraper.QueueStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

type fakeJobQueue struct {
	enqueued   []kernel.QueueItemID
	delayed    []kernel.QueueItemID
	enqueueErr error
}

func (f *fakeJobQueue) Enqueue(ctx context.Context, id kernel.QueueItemID) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, id)
	return nil
}

func (f *fakeJobQueue) EnqueueDelayed(ctx context.Context, id kernel.QueueItemID, delay time.Duration) error {
	f.delayed = append(f.delayed, id)
	return nil
}

func (f *fakeJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (kernel.QueueItemID, error) {
	return "", nil
}

func (f *fakeJobQueue) MoveDelayedToReady(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeJobQueue) Ping(ctx context.Context) error { return nil }

// fakeSource serves canned pages and can fail on demand, either outright
// or starting at a given fetch call.
type fakeSource struct {
	pages      []posting.FetchResult
	err        error
	failOnCall int
	calls      int
	lastQuery  posting.SearchQuery
}

func (f *fakeSource) FetchPage(ctx context.Context, query posting.SearchQuery) (*posting.FetchResult, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	if f.failOnCall > 0 && f.calls >= f.failOnCall {
		return nil, errors.New("upstream timeout")
	}
	if query.Page > len(f.pages) {
		return &posting.FetchResult{}, nil
	}
	page := f.pages[query.Page-1]
	return &page, nil
}

type fakePostingRepo struct {
	saved   []posting.JobPosting
	skipped int
}

func (f *fakePostingRepo) SaveAll(ctx context.Context, postings []posting.JobPosting) (*posting.SaveReport, error) {
	keep := len(postings) - f.skipped
	if keep < 0 {
		keep = 0
	}
	f.saved = append(f.saved, postings[:keep]...)
	return &posting.SaveReport{Saved: keep, Skipped: f.skipped}, nil
}

func (f *fakePostingRepo) GetByID(ctx context.Context, id kernel.PostingID) (*posting.JobPosting, error) {
	return nil, posting.ErrPostingNotFound()
}

func (f *fakePostingRepo) ListAll(ctx context.Context) ([]posting.JobPosting, error) {
	return f.saved, nil
}

func (f *fakePostingRepo) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[posting.JobPosting], error) {
	page := kernel.NewPaginated(f.saved, pagination, int64(len(f.saved)))
	return &page, nil
}

type fakeResumeRepo struct {
	latest *resume.Resume
}

func (f *fakeResumeRepo) Create(ctx context.Context, r *resume.Resume) error { return nil }

func (f *fakeResumeRepo) GetByID(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	if f.latest == nil || f.latest.ID != id {
		return nil, resume.ErrResumeNotFound()
	}
	return f.latest, nil
}

func (f *fakeResumeRepo) GetByUserID(ctx context.Context, userID kernel.UserID) (*resume.Resume, error) {
	if f.latest == nil {
		return nil, resume.ErrResumeNotFound()
	}
	return f.latest, nil
}

func (f *fakeResumeRepo) ListByUserID(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	page := kernel.NewPaginated([]resume.Resume{}, pagination, 0)
	return &page, nil
}

func (f *fakeResumeRepo) UpdateParsedData(ctx context.Context, id kernel.ResumeID, parsed *resume.ParsedData) error {
	return nil
}

func (f *fakeResumeRepo) Delete(ctx context.Context, id kernel.ResumeID) error { return nil }

type fakeMatchRepo struct {
	replaced [][]match.JobMatch
}

func (f *fakeMatchRepo) ReplaceForResume(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID, matches []match.JobMatch) error {
	f.replaced = append(f.replaced, matches)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id kernel.MatchID) (*match.JobMatch, error) {
	return nil, match.ErrMatchNotFound()
}

func (f *fakeMatchRepo) ListByUser(ctx context.Context, userID kernel.UserID, minScore int, pagination kernel.PaginationOptions) (*kernel.Paginated[match.JobMatch], error) {
	page := kernel.NewPaginated([]match.JobMatch{}, pagination, 0)
	return &page, nil
}

func (f *fakeMatchRepo) ListForEnhancement(ctx context.Context, userID kernel.UserID, minScore int) ([]match.JobMatch, error) {
	return nil, nil
}

func (f *fakeMatchRepo) UpdateScore(ctx context.Context, id kernel.MatchID, score int, aiEnhanced bool) error {
	return nil
}

func (f *fakeMatchRepo) Delete(ctx context.Context, id kernel.MatchID) error { return nil }

// ----------------------------------------------------------------------------
// Harness
// ----------------------------------------------------------------------------

type harness struct {
	svc       *Service
	configs   *fakeConfigRepo
	queue     *fakeQueueRepo
	jobQueue  *fakeJobQueue
	source    *fakeSource
	postings  *fakePostingRepo
	resumes   *fakeResumeRepo
	matchRepo *fakeMatchRepo
}

func newHarness() *harness {
	h := &harness{
		configs:   newFakeConfigRepo(),
		queue:     newFakeQueueRepo(),
		jobQueue:  &fakeJobQueue{},
		source:    &fakeSource{},
		postings:  &fakePostingRepo{},
		resumes:   &fakeResumeRepo{},
		matchRepo: &fakeMatchRepo{},
	}
	matches := matchsrv.NewService(h.matchRepo, h.postings, h.resumes, nil)
	h.svc = NewService(h.configs, h.queue, h.jobQueue, h.source, h.postings, h.resumes, matches)
	return h
}

var testUser = kernel.NewUserID("4dd7cf7e-0000-4000-8000-000000000001")

func (h *harness) seedConfig(t *testing.T) *scraper.Configuration {
	t.Helper()
	config, err := h.svc.CreateConfiguration(context.Background(), scraper.CreateConfigRequest{
		UserID:    testUser,
		Name:      "Go jobs",
		Keywords:  []string{"golang"},
		Frequency: scraper.FrequencyDaily,
		IsActive:  true,
	})
	require.NoError(t, err)
	return config
}

func makePosting(title string) posting.JobPosting {
	return posting.JobPosting{
		ID:      kernel.NewPostingID(title),
		Title:   title,
		Company: "Acme",
		URL:     "https://jobs.example/" + title,
	}
}

// ----------------------------------------------------------------------------
// Configuration
// ----------------------------------------------------------------------------

func TestCreateConfigurationValidation(t *testing.T) {
	h := newHarness()

	_, err := h.svc.CreateConfiguration(context.Background(), scraper.CreateConfigRequest{
		UserID: testUser,
		Name:   "missing keywords",
	})
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestCreateConfigurationDefaultsToManual(t *testing.T) {
	h := newHarness()
	config, err := h.svc.CreateConfiguration(context.Background(), scraper.CreateConfigRequest{
		UserID:   testUser,
		Name:     "no frequency",
		Keywords: []string{"go"},
	})
	require.NoError(t, err)
	assert.Equal(t, scraper.FrequencyManual, config.Frequency)
}

func TestCreateConfigurationKeepsSearchPreferences(t *testing.T) {
	h := newHarness()
	config, err := h.svc.CreateConfiguration(context.Background(), scraper.CreateConfigRequest{
		UserID:           testUser,
		Name:             "senior fintech",
		Keywords:         []string{"go"},
		SalaryMin:        90000,
		SalaryMax:        150000,
		JobTypes:         []string{"full-time", "contract"},
		Industries:       []string{"fintech"},
		ExperienceLevels: []string{"senior"},
		EmailAlerts:      true,
		Frequency:        scraper.FrequencyDaily,
		IsActive:         true,
	})
	require.NoError(t, err)

	stored := h.configs.byID[config.ID.String()]
	assert.Equal(t, 150000, stored.SalaryMax)
	assert.Equal(t, []string{"full-time", "contract"}, stored.JobTypes)
	assert.Equal(t, []string{"fintech"}, stored.Industries)
	assert.Equal(t, []string{"senior"}, stored.ExperienceLevels)
	assert.True(t, stored.EmailAlerts)

	// The job type filter reaches the upstream search.
	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))
	assert.Equal(t, []string{"full-time", "contract"}, h.source.lastQuery.JobTypes)
}

func TestListDueConfigurations(t *testing.T) {
	h := newHarness()
	due := h.seedConfig(t)
	notDue := h.seedConfig(t)
	now := time.Now()
	recent := now.Add(-time.Hour)
	h.configs.byID[notDue.ID.String()].LastRunAt = &recent

	got, err := h.svc.ListDueConfigurations(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

// ----------------------------------------------------------------------------
// Enqueue
// ----------------------------------------------------------------------------

func TestEnqueueRunCreatesPendingItem(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 10, "")
	require.NoError(t, err)

	assert.Equal(t, scraper.QueueStatusPending, run.Status)
	assert.Equal(t, 10, run.Priority)
	assert.Len(t, h.jobQueue.enqueued, 1)

	item, err := h.queue.GetByID(context.Background(), run.QueueItemID)
	require.NoError(t, err)
	assert.Equal(t, config.ID, item.ConfigID)
	assert.Equal(t, testUser, item.UserID)

	// The run has not happened yet; last-run belongs to completion.
	assert.Nil(t, h.configs.byID[config.ID.String()].LastRunAt)
}

func TestEnqueueRunDefaultPriority(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, defaultPriority, run.Priority)
}

func TestEnqueueRunUnknownConfig(t *testing.T) {
	h := newHarness()
	_, err := h.svc.EnqueueRun(context.Background(), kernel.NewConfigID("missing"), 0, "")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestEnqueueRunCarriesResumeID(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	resumeID := kernel.NewResumeID("4dd7cf7e-0000-4000-8000-00000000000a")

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, resumeID)
	require.NoError(t, err)

	item, err := h.queue.GetByID(context.Background(), run.QueueItemID)
	require.NoError(t, err)
	assert.Equal(t, resumeID, item.ResumeID)
}

func TestEnqueueRunPushFailureFailsItem(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.jobQueue.enqueueErr = errors.New("redis down")

	_, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.Error(t, err)

	stats, statsErr := h.svc.GetQueueStats(context.Background())
	require.NoError(t, statsErr)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Pending)
}

// ----------------------------------------------------------------------------
// Run processing
// ----------------------------------------------------------------------------

func TestProcessQueueItemHappyPath(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.source.pages = []posting.FetchResult{
		{Postings: []posting.JobPosting{makePosting("a"), makePosting("b")}, HasMore: true},
		{Postings: []posting.JobPosting{makePosting("c")}, HasMore: false},
	}

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)

	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	item, err := h.queue.GetByID(context.Background(), run.QueueItemID)
	require.NoError(t, err)
	assert.Equal(t, scraper.QueueStatusCompleted, item.Status)
	require.NotNil(t, item.ResultStats)
	assert.Equal(t, 2, item.ResultStats.PagesScraped)
	assert.Equal(t, 3, item.ResultStats.JobsFound)
	assert.Equal(t, 3, item.ResultStats.JobsSaved)

	assert.NotNil(t, h.configs.byID[config.ID.String()].LastRunAt,
		"completion stamps the configuration's last run")
}

func TestProcessQueueItemStopsAtPageCap(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	page := posting.FetchResult{Postings: []posting.JobPosting{makePosting("x")}, HasMore: true}
	h.source.pages = []posting.FetchResult{page, page, page, page, page}

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	item, _ := h.queue.GetByID(context.Background(), run.QueueItemID)
	assert.Equal(t, maxScrapePages, item.ResultStats.PagesScraped)
	assert.Equal(t, maxScrapePages, h.source.calls)
}

func TestProcessQueueItemRefusesNonPending(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	// A second claim on a completed item must be rejected outright.
	err = h.svc.ProcessQueueItem(context.Background(), run.QueueItemID)
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeConflict))
}

func TestProcessQueueItemRetriesWithFreshItems(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.source.err = errors.New("upstream 503")

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)

	// Each failed attempt fails its item terminally and schedules a
	// fresh pending one while budget remains.
	current := run.QueueItemID
	for attempt := 1; attempt < defaultMaxAttempts; attempt++ {
		err = h.svc.ProcessQueueItem(context.Background(), current)
		require.Error(t, err)

		failed, getErr := h.queue.GetByID(context.Background(), current)
		require.NoError(t, getErr)
		assert.Equal(t, scraper.QueueStatusFailed, failed.Status, "attempt %d", attempt)
		assert.Equal(t, attempt, failed.AttemptCount)
		assert.Contains(t, failed.ErrorMessage, "scrape_failed")

		require.Len(t, h.jobQueue.delayed, attempt)
		current = h.jobQueue.delayed[attempt-1]
		require.NotEqual(t, failed.ID, current, "retry must be a new queue item")

		next, getErr := h.queue.GetByID(context.Background(), current)
		require.NoError(t, getErr)
		assert.Equal(t, scraper.QueueStatusPending, next.Status)
		assert.Equal(t, attempt, next.AttemptCount)
		assert.NotNil(t, next.NextRetryAt)
	}

	// The final attempt exhausts the budget and spawns no successor.
	err = h.svc.ProcessQueueItem(context.Background(), current)
	require.Error(t, err)

	item, getErr := h.queue.GetByID(context.Background(), current)
	require.NoError(t, getErr)
	assert.Equal(t, scraper.QueueStatusFailed, item.Status)
	assert.Equal(t, defaultMaxAttempts, item.AttemptCount)
	assert.Len(t, h.jobQueue.delayed, defaultMaxAttempts-1)

	assert.Contains(t, h.configs.byID[config.ID.String()].LastError, "scrape_failed",
		"failed runs mirror their error onto the configuration")
}

func TestProcessQueueItemFailureKeepsPartialStats(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.source.pages = []posting.FetchResult{
		{Postings: []posting.JobPosting{makePosting("a"), makePosting("b")}, HasMore: true},
	}
	h.source.failOnCall = 2

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.Error(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	item, getErr := h.queue.GetByID(context.Background(), run.QueueItemID)
	require.NoError(t, getErr)
	assert.Equal(t, scraper.QueueStatusFailed, item.Status)
	require.NotNil(t, item.ResultStats, "partial progress survives the failure")
	assert.Equal(t, 1, item.ResultStats.PagesScraped)
	assert.Equal(t, 2, item.ResultStats.JobsFound)
	assert.Equal(t, 2, item.ResultStats.JobsSaved)
}

func TestCompletedRunClearsConfigError(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.configs.byID[config.ID.String()].LastError = "scrape_failed: upstream 503"
	h.source.pages = []posting.FetchResult{
		{Postings: []posting.JobPosting{makePosting("a")}},
	}

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	assert.Empty(t, h.configs.byID[config.ID.String()].LastError)
	assert.NotNil(t, h.configs.byID[config.ID.String()].LastRunAt)
}

func TestProcessQueueItemRefreshesMatches(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.resumes.latest = &resume.Resume{
		ID:     kernel.NewResumeID("4dd7cf7e-0000-4000-8000-000000000002"),
		UserID: testUser,
		ParsedData: &resume.ParsedData{
			Skills: []string{"go"},
		},
	}
	h.source.pages = []posting.FetchResult{
		{Postings: []posting.JobPosting{makePosting("a")}},
	}

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	assert.Len(t, h.matchRepo.replaced, 1, "match refresh should run after a successful scrape")
}

func TestProcessQueueItemRefreshUsesPinnedResume(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	pinned := kernel.NewResumeID("4dd7cf7e-0000-4000-8000-000000000003")
	h.resumes.latest = &resume.Resume{
		ID:     pinned,
		UserID: testUser,
		ParsedData: &resume.ParsedData{
			Skills: []string{"go"},
		},
	}
	h.source.pages = []posting.FetchResult{
		{Postings: []posting.JobPosting{makePosting("a")}},
	}

	// The fake resume repo only resolves GetByID for the pinned ID, so a
	// refresh reaching the match repo proves the run honored it.
	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, pinned)
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	assert.Len(t, h.matchRepo.replaced, 1)
}

func TestProcessQueueItemSkipsRefreshWithoutResume(t *testing.T) {
	h := newHarness()
	config := h.seedConfig(t)
	h.source.pages = []posting.FetchResult{
		{Postings: []posting.JobPosting{makePosting("a")}},
	}

	run, err := h.svc.EnqueueRun(context.Background(), config.ID, 0, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessQueueItem(context.Background(), run.QueueItemID))

	assert.Empty(t, h.matchRepo.replaced)
	item, _ := h.queue.GetByID(context.Background(), run.QueueItemID)
	assert.Equal(t, scraper.QueueStatusCompleted, item.Status)
}
