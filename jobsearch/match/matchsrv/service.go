package matchsrv

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobradar/radar/internal/ai/matcher"
	"github.com/jobradar/radar/jobsearch/match"
	"github.com/jobradar/radar/jobsearch/posting"
	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/pkg/kernel"
	"github.com/jobradar/radar/pkg/logx"
)

const (
	enhanceBatchSize  = 5
	enhanceBatchPause = time.Second
)

// enhanceFailScore is applied when the enhancer cannot return a score.
// It sits below the promote threshold, so unscorable pairs are pruned
// rather than kept on their keyword score alone.
const enhanceFailScore = 50

// Enhancer re-scores a single candidate/posting pair with an LLM opinion.
type Enhancer interface {
	Score(ctx context.Context, profile matcher.CandidateProfile, posting matcher.PostingSummary) (int, error)
}

// Service computes and maintains job matches. Refreshes for the same
// (user, resume) pair are serialized so concurrent calls cannot interleave
// their delete-then-insert windows.
type Service struct {
	matches  match.Repository
	postings posting.Repository
	resumes  resume.Repository
	enhancer Enhancer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(matches match.Repository, postings posting.Repository, resumes resume.Repository, enhancer Enhancer) *Service {
	return &Service{
		matches:  matches,
		postings: postings,
		resumes:  resumes,
		enhancer: enhancer,
		locks:    make(map[string]*sync.Mutex),
	}
}

// RefreshReport summarizes a refresh run.
type RefreshReport struct {
	PostingsScored  int `json:"postings_scored"`
	PostingsSkipped int `json:"postings_skipped"`
	MatchesSaved    int `json:"matches_saved"`
}

// RefreshMatches rebuilds a user's matches against every stored posting.
// Postings without recognizable skills are skipped, pairs scoring below
// the keep threshold produce no row, and the surviving set atomically
// replaces whatever was there before.
func (s *Service) RefreshMatches(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID) (*RefreshReport, error) {
	lock := s.refreshLock(userID, resumeID)
	lock.Lock()
	defer lock.Unlock()

	resumeModel, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if !resumeModel.IsParsed() {
		return nil, resume.ErrResumeNotParsed().WithDetail("resume_id", resumeID.String())
	}
	resumeSkills := resumeModel.ParsedData.Skills

	postings, err := s.postings.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &RefreshReport{}
	now := time.Now()
	matches := make([]match.JobMatch, 0, len(postings))
	for i := range postings {
		p := &postings[i]
		if match.Skip(p.SkillsRequired) {
			report.PostingsSkipped++
			continue
		}
		report.PostingsScored++

		result := match.Score(resumeSkills, p.SkillsRequired)
		if result.Score < match.MinScoreToKeep {
			continue
		}
		matches = append(matches, match.JobMatch{
			ID:            kernel.NewMatchID(uuid.New().String()),
			UserID:        userID,
			ResumeID:      resumeID,
			PostingID:     p.ID,
			Score:         result.Score,
			Category:      match.CategoryForScore(result.Score),
			MatchedSkills: result.MatchedSkills,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.matches.ReplaceForResume(ctx, userID, resumeID, matches); err != nil {
		return nil, err
	}
	report.MatchesSaved = len(matches)

	logx.Infof("Refreshed matches for user %s: %d saved, %d postings skipped",
		userID.String(), report.MatchesSaved, report.PostingsSkipped)
	return report, nil
}

// EnhanceReport summarizes an enhancement pass.
type EnhanceReport struct {
	Considered int `json:"considered"`
	Promoted   int `json:"promoted"`
	Pruned     int `json:"pruned"`
	Skipped    int `json:"skipped"`
}

// EnhanceMatches runs the LLM second opinion over a user's keep-worthy
// matches in small batches, pausing between batches to stay inside rate
// limits. When the caller has no analysis-derived profile it passes nil
// and a fallback is built from the user's latest parsed resume. A pair
// the enhancer cannot score takes enhanceFailScore and is pruned.
func (s *Service) EnhanceMatches(ctx context.Context, userID kernel.UserID, profile *matcher.CandidateProfile) (*EnhanceReport, error) {
	matches, err := s.matches.ListForEnhancement(ctx, userID, match.MinScoreToKeep)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = s.fallbackProfile(ctx, userID)
	}

	report := &EnhanceReport{Considered: len(matches)}
	for start := 0; start < len(matches); start += enhanceBatchSize {
		end := start + enhanceBatchSize
		if end > len(matches) {
			end = len(matches)
		}
		for i := start; i < end; i++ {
			s.enhanceOne(ctx, &matches[i], *profile, report)
		}
		if end < len(matches) {
			select {
			case <-time.After(enhanceBatchPause):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	logx.Infof("Enhanced matches for user %s: %d promoted, %d pruned, %d skipped",
		userID.String(), report.Promoted, report.Pruned, report.Skipped)
	return report, nil
}

// fallbackProfile builds a scoring profile from the user's latest parsed
// resume when no fresher analysis is available.
func (s *Service) fallbackProfile(ctx context.Context, userID kernel.UserID) *matcher.CandidateProfile {
	profile := &matcher.CandidateProfile{
		ExperienceLevel:       "mid",
		TechnicalSkillsRating: 5,
	}
	resumeModel, err := s.resumes.GetByUserID(ctx, userID)
	if err != nil {
		logx.Warnf("enhancement profile fallback for user %s: resume lookup: %v", userID.String(), err)
		return profile
	}
	profile.Skills = resumeModel.Skills()
	return profile
}

func (s *Service) enhanceOne(ctx context.Context, m *match.JobMatch, profile matcher.CandidateProfile, report *EnhanceReport) {
	p, err := s.postings.GetByID(ctx, m.PostingID)
	if err != nil {
		logx.Warnf("enhancement skipped for match %s: posting lookup: %v", m.ID.String(), err)
		report.Skipped++
		return
	}

	score, err := s.enhancer.Score(ctx, profile, matcher.PostingSummary{
		Title:          p.Title,
		Company:        p.Company,
		SkillsRequired: p.SkillsRequired,
		Description:    p.Description,
	})
	if err != nil {
		logx.Warnf("enhancement failed for match %s, defaulting score to %d: %v",
			m.ID.String(), enhanceFailScore, err)
		score = enhanceFailScore
	}

	if err := s.PruneOrPromote(ctx, m.ID, score); err != nil {
		logx.Warnf("enhancement write failed for match %s: %v", m.ID.String(), err)
		report.Skipped++
		return
	}
	if score >= match.MinScoreToPromote {
		report.Promoted++
	} else {
		report.Pruned++
	}
}

// PruneOrPromote applies an enhanced score: at or above the promote
// threshold the match keeps the new score and is flagged enhanced, below
// it the row is deleted outright.
func (s *Service) PruneOrPromote(ctx context.Context, id kernel.MatchID, enhancedScore int) error {
	if enhancedScore >= match.MinScoreToPromote {
		return s.matches.UpdateScore(ctx, id, enhancedScore, true)
	}
	return s.matches.Delete(ctx, id)
}

// ListMatches returns a user's matches at or above minScore.
func (s *Service) ListMatches(ctx context.Context, userID kernel.UserID, minScore int, pagination kernel.PaginationOptions) (*kernel.Paginated[match.JobMatch], error) {
	return s.matches.ListByUser(ctx, userID, minScore, pagination)
}

func (s *Service) refreshLock(userID kernel.UserID, resumeID kernel.ResumeID) *sync.Mutex {
	key := userID.String() + "/" + resumeID.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
