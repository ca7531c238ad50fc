package agentsrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobradar/radar/internal/ai/analyzer"
	"github.com/jobradar/radar/internal/ai/matcher"
	"github.com/jobradar/radar/jobsearch/agent"
	"github.com/jobradar/radar/jobsearch/match/matchsrv"
	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/jobsearch/scraper/scrapersrv"
	"github.com/jobradar/radar/pkg/kernel"
	"github.com/jobradar/radar/pkg/logx"
)

const (
	runPriority      = 10
	fallbackSkillCap = 10

	defaultPollInterval    = 3 * time.Second
	defaultMaxPollAttempts = 10
)

// Analyzer is the strategic resume assessment collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, profile analyzer.ResumeProfile) (*analyzer.ResumeAnalysis, error)
}

// Service runs the agent activation workflow: analyze the resume, set up
// a search configuration, kick a scrape run at elevated priority, wait a
// bounded time for it, then enhance the resulting matches.
type Service struct {
	resumes  resume.Repository
	analyzer Analyzer
	scrapes  *scrapersrv.Service
	matches  *matchsrv.Service

	// Polling bounds for awaitRun. Deployments with slower scrape
	// sources raise these through the options.
	pollInterval    time.Duration
	maxPollAttempts int
}

// Option adjusts Service construction defaults.
type Option func(*Service)

// WithPolling overrides how often and how many times a queued run is
// polled before activation gives up waiting.
func WithPolling(interval time.Duration, maxAttempts int) Option {
	return func(s *Service) {
		s.pollInterval = interval
		s.maxPollAttempts = maxAttempts
	}
}

func NewService(resumes resume.Repository, an Analyzer, scrapes *scrapersrv.Service, matches *matchsrv.Service, opts ...Option) *Service {
	s := &Service{
		resumes:         resumes,
		analyzer:        an,
		scrapes:         scrapes,
		matches:         matches,
		pollInterval:    defaultPollInterval,
		maxPollAttempts: defaultMaxPollAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate drives the whole workflow. Validation and resume lookup keep
// their precise error codes; anything that goes wrong after the search
// configuration exists collapses into a single activation error and
// nothing is rolled back.
func (s *Service) Activate(ctx context.Context, req agent.ActivateRequest) (*agent.ActivationResult, error) {
	if req.UserID.IsEmpty() || req.ResumeID.IsEmpty() {
		return nil, agent.ErrMissingIdentifiers()
	}
	if _, err := uuid.Parse(req.UserID.String()); err != nil {
		return nil, agent.ErrInvalidIdentifier().WithDetail("field", "user_id")
	}
	if _, err := uuid.Parse(req.ResumeID.String()); err != nil {
		return nil, agent.ErrInvalidIdentifier().WithDetail("field", "resume_id")
	}

	// "No resume found" and "resume not parsed yet" must stay
	// distinguishable for the caller.
	resumeModel, err := s.resumes.GetByID(ctx, req.ResumeID)
	if err != nil {
		return nil, err
	}
	if !resumeModel.IsParsed() {
		return nil, resume.ErrResumeNotParsed().WithDetail("resume_id", req.ResumeID.String())
	}

	analysis := s.analyzeResume(ctx, resumeModel)

	config, err := s.scrapes.CreateConfiguration(ctx, scraper.CreateConfigRequest{
		UserID:           req.UserID,
		Name:             "AI Agent Job Search - " + time.Now().Format("2006-01-02"),
		Keywords:         mergeKeywords(analysis.SuggestedKeywords, req.Preferences.Keywords),
		Location:         req.Preferences.Location,
		Remote:           req.Preferences.Remote,
		SalaryMin:        req.Preferences.SalaryMin,
		SalaryMax:        req.Preferences.SalaryMax,
		JobTypes:         req.Preferences.JobTypes,
		Industries:       req.Preferences.Industries,
		ExperienceLevels: req.Preferences.ExperienceLevels,
		EmailAlerts:      req.Preferences.EmailAlerts,
		Frequency:        scraper.FrequencyDaily,
		IsActive:         true,
	})
	if err != nil {
		return nil, agent.ErrRegistry.NewWithCause(agent.CodeActivationFailed, err)
	}

	run, err := s.scrapes.EnqueueRun(ctx, config.ID, runPriority, req.ResumeID)
	if err != nil {
		return nil, agent.ErrRegistry.NewWithCause(agent.CodeActivationFailed, err).
			WithDetail("config_id", config.ID.String())
	}

	runStatus := s.awaitRun(ctx, run.QueueItemID)

	result := &agent.ActivationResult{
		ConfigID:    config.ID,
		QueueItemID: run.QueueItemID,
		RunStatus:   runStatus,
		Analysis:    analysis,
	}

	report, err := s.matches.EnhanceMatches(ctx, req.UserID, scoringProfile(resumeModel, analysis))
	if err != nil {
		return nil, agent.ErrRegistry.NewWithCause(agent.CodeActivationFailed, err).
			WithDetail("config_id", config.ID.String())
	}
	result.MatchesConsidered = report.Considered
	result.MatchesPromoted = report.Promoted
	result.MatchesPruned = report.Pruned

	logx.Infof("Agent activated for user %s: config=%s run=%s matches=%d promoted=%d pruned=%d",
		req.UserID.String(), config.ID.String(), string(runStatus),
		report.Considered, report.Promoted, report.Pruned)
	return result, nil
}

// analyzeResume asks the model for its read and falls back to heuristics
// derived from the parse when the model is unavailable. Activation never
// fails because analysis did.
func (s *Service) analyzeResume(ctx context.Context, resumeModel *resume.Resume) agent.Analysis {
	parsed := resumeModel.ParsedData

	result, err := s.analyzer.Analyze(ctx, analyzer.ResumeProfile{
		Skills:          strings.Join(parsed.Skills, ", "),
		ExperienceCount: len(parsed.Experience),
		FullText:        parsed.FullText,
	})
	if err != nil {
		logx.Warnf("resume analysis failed for %s, using heuristic fallback: %v",
			resumeModel.ID.String(), err)
		return fallbackAnalysis(parsed.Skills)
	}

	return agent.Analysis{
		SuggestedKeywords:     result.SuggestedKeywords,
		ExperienceLevel:       result.ExperienceLevel,
		SuggestedRoles:        result.SuggestedRoles,
		TechnicalSkillsRating: result.TechnicalSkillsRating,
		SoftSkillsAssessment:  result.SoftSkillsAssessment,
	}
}

// fallbackAnalysis is the heuristic stand-in: the first ten parsed skills
// as keywords and a mid-level assumption.
func fallbackAnalysis(skills []string) agent.Analysis {
	keywords := skills
	if len(keywords) > fallbackSkillCap {
		keywords = keywords[:fallbackSkillCap]
	}
	return agent.Analysis{
		SuggestedKeywords:     keywords,
		ExperienceLevel:       "mid",
		TechnicalSkillsRating: 5,
	}
}

// scoringProfile packages the parsed skills and the analysis read for
// the match enhancer.
func scoringProfile(resumeModel *resume.Resume, analysis agent.Analysis) *matcher.CandidateProfile {
	return &matcher.CandidateProfile{
		Skills:                resumeModel.Skills(),
		ExperienceLevel:       analysis.ExperienceLevel,
		TechnicalSkillsRating: analysis.TechnicalSkillsRating,
		SuggestedRoles:        analysis.SuggestedRoles,
	}
}

// awaitRun polls the queue item until it reaches a terminal status or the
// attempt budget runs out. Hitting the budget is not a failure; the run
// keeps going in the background and the caller gets its current status.
func (s *Service) awaitRun(ctx context.Context, id kernel.QueueItemID) scraper.QueueStatus {
	status := scraper.QueueStatusPending
	for attempt := 0; attempt < s.maxPollAttempts; attempt++ {
		select {
		case <-time.After(s.pollInterval):
		case <-ctx.Done():
			return status
		}

		item, err := s.scrapes.GetQueueItem(ctx, id)
		if err != nil {
			logx.Warnf("polling queue item %s: %v", id.String(), err)
			continue
		}
		status = item.Status
		if status.IsTerminal() {
			return status
		}
	}
	logx.Infof("queue item %s still %s after polling window", id.String(), string(status))
	return status
}

// mergeKeywords unions the two lists, case-insensitive, analysis first.
func mergeKeywords(fromAnalysis, fromPrefs []string) []string {
	seen := make(map[string]struct{}, len(fromAnalysis)+len(fromPrefs))
	merged := make([]string, 0, len(fromAnalysis)+len(fromPrefs))
	for _, kw := range append(append([]string{}, fromAnalysis...), fromPrefs...) {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, strings.TrimSpace(kw))
	}
	return merged
}
