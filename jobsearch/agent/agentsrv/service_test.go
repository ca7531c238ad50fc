package agentsrv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobradar/radar/internal/ai/analyzer"
	"github.com/jobradar/radar/internal/ai/matcher"
	"github.com/jobradar/radar/jobsearch/agent"
	"github.com/jobradar/radar/jobsearch/match"
	"github.com/jobradar/radar/jobsearch/match/matchsrv"
	"github.com/jobradar/radar/jobsearch/posting"
	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/jobsearch/scraper/scrapersrv"
	"github.com/jobradar/radar/pkg/errx"
	"github.com/jobradar/radar/pkg/kernel"
)

// ----------------------------------------------------------------------------
// Fakes
// ----------------------------------------------------------------------------

type fakeAnalyzer struct {
	result  *analyzer.ResumeAnalysis
	err     error
	profile analyzer.ResumeProfile
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, profile analyzer.ResumeProfile) (*analyzer.ResumeAnalysis, error) {
	f.profile = profile
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeResumeRepo struct {
	byID map[string]*resume.Resume
}

func (f *fakeResumeRepo) Create(ctx context.Context, r *resume.Resume) error { return nil }

func (f *fakeResumeRepo) GetByID(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	r, ok := f.byID[id.String()]
	if !ok {
		return nil, resume.ErrResumeNotFound()
	}
	return r, nil
}

func (f *fakeResumeRepo) GetByUserID(ctx context.Context, userID kernel.UserID) (*resume.Resume, error) {
	for _, r := range f.byID {
		if r.UserID == userID {
			return r, nil
		}
	}
	return nil, resume.ErrResumeNotFound()
}

func (f *fakeResumeRepo) ListByUserID(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	page := kernel.NewPaginated([]resume.Resume{}, pagination, 0)
	return &page, nil
}

func (f *fakeResumeRepo) UpdateParsedData(ctx context.Context, id kernel.ResumeID, parsed *resume.ParsedData) error {
	return nil
}

func (f *fakeResumeRepo) Delete(ctx context.Context, id kernel.ResumeID) error { return nil }

type fakeConfigRepo struct {
	mu   sync.Mutex
	byID map[string]*scraper.Configuration
	last *scraper.Configuration
}

func (f *fakeConfigRepo) Create(ctx context.Context, config *scraper.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[config.ID.String()] = config
	f.last = config
	return nil
}

func (f *fakeConfigRepo) GetByID(ctx context.Context, id kernel.ConfigID) (*scraper.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id.String()]
	if !ok {
		return nil, scraper.ErrConfigNotFound()
	}
	return c, nil
}

func (f *fakeConfigRepo) ListByUserID(ctx context.Context, userID kernel.UserID) ([]scraper.Configuration, error) {
	return nil, nil
}

func (f *fakeConfigRepo) ListActive(ctx context.Context) ([]scraper.Configuration, error) {
	return nil, nil
}

func (f *fakeConfigRepo) Update(ctx context.Context, config *scraper.Configuration) error { return nil }

func (f *fakeConfigRepo) TouchLastRun(ctx context.Context, id kernel.ConfigID, at time.Time) error {
	return nil
}

func (f *fakeConfigRepo) SetLastError(ctx context.Context, id kernel.ConfigID, message string) error {
	return nil
}

func (f *fakeConfigRepo) Delete(ctx context.Context, id kernel.ConfigID) error { return nil }

type fakeQueueRepo struct {
	mu   sync.Mutex
	byID map[string]*scraper.QueueItem
}

func (f *fakeQueueRepo) Create(ctx context.Context, item *scraper.QueueItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *item
	f.byID[item.ID.String()] = &cp
	return nil
}

func (f *fakeQueueRepo) GetByID(ctx context.Context, id kernel.QueueItemID) (*scraper.QueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.byID[id.String()]
	if !ok {
		return nil, scraper.ErrQueueItemNotFound()
	}
	cp := *item
	return &cp, nil
}

func (f *fakeQueueRepo) setStatus(id kernel.QueueItemID, status scraper.QueueStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.byID[id.String()]; ok {
		item.Status = status
	}
}

func (f *fakeQueueRepo) firstID() (kernel.QueueItemID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.byID {
		return item.ID, true
	}
	return "", false
}

func (f *fakeQueueRepo) MarkProcessing(ctx context.Context, id kernel.QueueItemID) error { return nil }

func (f *fakeQueueRepo) MarkCompleted(ctx context.Context, id kernel.QueueItemID, stats scraper.ResultStats) error {
	return nil
}

func (f *fakeQueueRepo) MarkFailed(ctx context.Context, id kernel.QueueItemID, errorMessage string, stats *scraper.ResultStats) error {
	return nil
}

func (f *fakeQueueRepo) GetStats(ctx context.Context) (*scraper.QueueStats, error) {
	return &scraper.QueueStats{}, nil
}

type fakeJobQueue struct {
	err error
}

func (f *fakeJobQueue) Enqueue(ctx context.Context, id kernel.QueueItemID) error { return f.err }

func (f *fakeJobQueue) EnqueueDelayed(ctx context.Context, id kernel.QueueItemID, delay time.Duration) error {
	return nil
}

func (f *fakeJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (kernel.QueueItemID, error) {
	return "", nil
}

func (f *fakeJobQueue) MoveDelayedToReady(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeJobQueue) Ping(ctx context.Context) error { return nil }

type fakePostingRepo struct {
	postings []posting.JobPosting
}

func (f *fakePostingRepo) SaveAll(ctx context.Context, postings []posting.JobPosting) (*posting.SaveReport, error) {
	return &posting.SaveReport{}, nil
}

func (f *fakePostingRepo) GetByID(ctx context.Context, id kernel.PostingID) (*posting.JobPosting, error) {
	for i := range f.postings {
		if f.postings[i].ID == id {
			return &f.postings[i], nil
		}
	}
	return nil, posting.ErrPostingNotFound()
}

func (f *fakePostingRepo) ListAll(ctx context.Context) ([]posting.JobPosting, error) {
	return f.postings, nil
}

func (f *fakePostingRepo) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[posting.JobPosting], error) {
	page := kernel.NewPaginated([]posting.JobPosting{}, pagination, 0)
	return &page, nil
}

type fakeSource struct{}

func (f *fakeSource) FetchPage(ctx context.Context, query posting.SearchQuery) (*posting.FetchResult, error) {
	return &posting.FetchResult{}, nil
}

type fakeMatchRepo struct {
	enhanceable []match.JobMatch
}

func (f *fakeMatchRepo) ReplaceForResume(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID, matches []match.JobMatch) error {
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
	return f.enhanceable, nil
}

func (f *fakeMatchRepo) UpdateScore(ctx context.Context, id kernel.MatchID, score int, aiEnhanced bool) error {
	return nil
}

func (f *fakeMatchRepo) Delete(ctx context.Context, id kernel.MatchID) error { return nil }

// captureEnhancer records the profile the match enhancer was handed.
type captureEnhancer struct {
	lastProfile matcher.CandidateProfile
	calls       int
}

func (c *captureEnhancer) Score(ctx context.Context, profile matcher.CandidateProfile, p matcher.PostingSummary) (int, error) {
	c.calls++
	c.lastProfile = profile
	return 80, nil
}

// ----------------------------------------------------------------------------
// Harness
// ----------------------------------------------------------------------------

const (
	userUUID   = "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"
	resumeUUID = "6ec0bd7f-11c0-43da-975e-2a8ad9ebae0b"
)

type harness struct {
	svc       *Service
	analyzer  *fakeAnalyzer
	resumes   *fakeResumeRepo
	configs   *fakeConfigRepo
	queue     *fakeQueueRepo
	jobQueue  *fakeJobQueue
	matchRepo *fakeMatchRepo
	postings  *fakePostingRepo
	enhancer  *captureEnhancer
}

func newHarness() *harness {
	h := &harness{
		analyzer: &fakeAnalyzer{result: &analyzer.ResumeAnalysis{
			SuggestedKeywords:     []string{"golang", "backend"},
			ExperienceLevel:       "senior",
			TechnicalSkillsRating: 8,
		}},
		resumes:   &fakeResumeRepo{byID: make(map[string]*resume.Resume)},
		configs:   &fakeConfigRepo{byID: make(map[string]*scraper.Configuration)},
		queue:     &fakeQueueRepo{byID: make(map[string]*scraper.QueueItem)},
		jobQueue:  &fakeJobQueue{},
		matchRepo: &fakeMatchRepo{},
		postings:  &fakePostingRepo{},
		enhancer:  &captureEnhancer{},
	}

	matches := matchsrv.NewService(h.matchRepo, h.postings, h.resumes, h.enhancer)
	scrapes := scrapersrv.NewService(h.configs, h.queue, h.jobQueue, &fakeSource{}, h.postings, h.resumes, matches)
	h.svc = NewService(h.resumes, h.analyzer, scrapes, matches,
		WithPolling(2*time.Millisecond, 50))
	return h
}

func (h *harness) seedParsedResume() {
	h.resumes.byID[resumeUUID] = &resume.Resume{
		ID:     kernel.NewResumeID(resumeUUID),
		UserID: kernel.NewUserID(userUUID),
		ParsedData: &resume.ParsedData{
			Skills:     []string{"go", "python", "docker"},
			Experience: []resume.ExperienceEntry{{Title: "Engineer"}},
			FullText:   "full resume text",
		},
	}
}

func activateReq() agent.ActivateRequest {
	return agent.ActivateRequest{
		UserID:   kernel.NewUserID(userUUID),
		ResumeID: kernel.NewResumeID(resumeUUID),
	}
}

// ----------------------------------------------------------------------------
// Validation
// ----------------------------------------------------------------------------

func TestActivateMissingIdentifiers(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Activate(context.Background(), agent.ActivateRequest{})
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestActivateInvalidUUID(t *testing.T) {
	h := newHarness()

	req := activateReq()
	req.UserID = kernel.NewUserID("not-a-uuid")
	_, err := h.svc.Activate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	req = activateReq()
	req.ResumeID = kernel.NewResumeID("also-not-a-uuid")
	_, err = h.svc.Activate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestActivateResumeNotFound(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Activate(context.Background(), activateReq())
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestActivateResumeNotParsed(t *testing.T) {
	h := newHarness()
	h.resumes.byID[resumeUUID] = &resume.Resume{
		ID:     kernel.NewResumeID(resumeUUID),
		UserID: kernel.NewUserID(userUUID),
	}

	_, err := h.svc.Activate(context.Background(), activateReq())
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeBusiness))
}

// ----------------------------------------------------------------------------
// Workflow
// ----------------------------------------------------------------------------

func TestActivateHappyPath(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()

	// Stand in for a worker: complete the queue item once it appears.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if id, ok := h.queue.firstID(); ok {
				h.queue.setStatus(id, scraper.QueueStatusCompleted)
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	result, err := h.svc.Activate(context.Background(), activateReq())
	<-done
	require.NoError(t, err)

	assert.Equal(t, scraper.QueueStatusCompleted, result.RunStatus)
	assert.False(t, result.ConfigID.IsEmpty())
	assert.False(t, result.QueueItemID.IsEmpty())
	assert.Equal(t, []string{"golang", "backend"}, result.Analysis.SuggestedKeywords)
	assert.Equal(t, "senior", result.Analysis.ExperienceLevel)

	// The configuration carries the analysis keywords and the dated name.
	require.NotNil(t, h.configs.last)
	assert.Contains(t, h.configs.last.Name, "AI Agent Job Search - ")
	assert.Equal(t, []string{"golang", "backend"}, h.configs.last.Keywords)
	assert.Equal(t, scraper.FrequencyDaily, h.configs.last.Frequency)
	assert.True(t, h.configs.last.IsActive)

	// The analyzer saw the parsed profile, not raw bytes.
	assert.Equal(t, "go, python, docker", h.analyzer.profile.Skills)
	assert.Equal(t, 1, h.analyzer.profile.ExperienceCount)
}

func TestActivateMergesPreferenceKeywords(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req := activateReq()
	req.Preferences.Keywords = []string{"Backend", "remote"}
	_, err := h.svc.Activate(ctx, req)
	require.NoError(t, err)

	// "Backend" duplicates an analysis keyword case-insensitively.
	assert.Equal(t, []string{"golang", "backend", "remote"}, h.configs.last.Keywords)
}

func TestActivateAnalyzerFailureFallsBack(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()
	h.analyzer.err = errors.New("model unavailable")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := h.svc.Activate(ctx, activateReq())
	require.NoError(t, err, "analysis failure must not abort activation")

	assert.Equal(t, []string{"go", "python", "docker"}, result.Analysis.SuggestedKeywords)
	assert.Equal(t, "mid", result.Analysis.ExperienceLevel)
	assert.Equal(t, 5, result.Analysis.TechnicalSkillsRating)
}

func TestActivatePollTimeoutIsNotAnError(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()

	// Nothing ever processes the run; a cancelled context stands in for
	// the poll budget running out.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := h.svc.Activate(ctx, activateReq())
	require.NoError(t, err)
	assert.Equal(t, scraper.QueueStatusPending, result.RunStatus)
}

func TestActivateEnqueueFailure(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()
	h.jobQueue.err = errors.New("redis down")

	_, err := h.svc.Activate(context.Background(), activateReq())
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
}

func TestActivatePinsResumeOnQueueItem(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := h.svc.Activate(ctx, activateReq())
	require.NoError(t, err)

	item, err := h.queue.GetByID(context.Background(), result.QueueItemID)
	require.NoError(t, err)
	assert.Equal(t, kernel.NewResumeID(resumeUUID), item.ResumeID)
}

func TestActivateCarriesPreferencesToConfiguration(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req := activateReq()
	req.Preferences = agent.Preferences{
		Location:         "Berlin",
		Remote:           true,
		SalaryMin:        80000,
		SalaryMax:        120000,
		JobTypes:         []string{"full-time"},
		Industries:       []string{"fintech"},
		ExperienceLevels: []string{"senior"},
		EmailAlerts:      true,
	}
	_, err := h.svc.Activate(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, h.configs.last)
	assert.Equal(t, "Berlin", h.configs.last.Location)
	assert.True(t, h.configs.last.Remote)
	assert.Equal(t, 120000, h.configs.last.SalaryMax)
	assert.Equal(t, []string{"full-time"}, h.configs.last.JobTypes)
	assert.Equal(t, []string{"fintech"}, h.configs.last.Industries)
	assert.Equal(t, []string{"senior"}, h.configs.last.ExperienceLevels)
	assert.True(t, h.configs.last.EmailAlerts)
}

func TestActivateHandsAnalysisProfileToEnhancer(t *testing.T) {
	h := newHarness()
	h.seedParsedResume()
	p := posting.JobPosting{
		ID:             kernel.NewPostingID("p1"),
		Title:          "Go Dev",
		Company:        "Acme",
		SkillsRequired: []string{"go"},
	}
	h.postings.postings = []posting.JobPosting{p}
	h.matchRepo.enhanceable = []match.JobMatch{{
		ID:            kernel.NewMatchID("m1"),
		UserID:        kernel.NewUserID(userUUID),
		ResumeID:      kernel.NewResumeID(resumeUUID),
		PostingID:     p.ID,
		Score:         60,
		MatchedSkills: []string{"go"},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.svc.Activate(ctx, activateReq())
	require.NoError(t, err)

	require.Equal(t, 1, h.enhancer.calls)
	assert.Equal(t, []string{"go", "python", "docker"}, h.enhancer.lastProfile.Skills)
	assert.Equal(t, "senior", h.enhancer.lastProfile.ExperienceLevel)
	assert.Equal(t, 8, h.enhancer.lastProfile.TechnicalSkillsRating)
}

func TestNewServicePollingDefaultsAndOverride(t *testing.T) {
	h := newHarness()
	plain := NewService(h.resumes, h.analyzer, nil, nil)
	assert.Equal(t, defaultPollInterval, plain.pollInterval)
	assert.Equal(t, defaultMaxPollAttempts, plain.maxPollAttempts)

	tuned := NewService(h.resumes, h.analyzer, nil, nil, WithPolling(time.Second, 3))
	assert.Equal(t, time.Second, tuned.pollInterval)
	assert.Equal(t, 3, tuned.maxPollAttempts)
}
