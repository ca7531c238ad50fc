package agent

import (
	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/pkg/kernel"
)

// Preferences narrow the agent's search beyond what the resume suggests.
type Preferences struct {
	Keywords         []string `json:"keywords,omitempty"`
	Location         string   `json:"location,omitempty"`
	Remote           bool     `json:"remote,omitempty"`
	SalaryMin        int      `json:"salary_min,omitempty"`
	SalaryMax        int      `json:"salary_max,omitempty"`
	JobTypes         []string `json:"job_types,omitempty"`
	Industries       []string `json:"industries,omitempty"`
	ExperienceLevels []string `json:"experience_levels,omitempty"`
	EmailAlerts      bool     `json:"email_alerts,omitempty"`
}

// ActivateRequest starts the agent for a user's resume.
type ActivateRequest struct {
	UserID      kernel.UserID   `json:"user_id" validate:"required"`
	ResumeID    kernel.ResumeID `json:"resume_id" validate:"required"`
	Preferences Preferences     `json:"preferences"`
}

// Analysis is the resume assessment the activation worked from, either
// the model's or the heuristic fallback.
type Analysis struct {
	SuggestedKeywords     []string `json:"suggestedKeywords"`
	ExperienceLevel       string   `json:"experienceLevel"`
	SuggestedRoles        []string `json:"suggestedRoles"`
	TechnicalSkillsRating int      `json:"technicalSkillsRating"`
	SoftSkillsAssessment  string   `json:"softSkillsAssessment"`
}

// ActivationResult is what an activation produced.
type ActivationResult struct {
	ConfigID    kernel.ConfigID     `json:"config_id"`
	QueueItemID kernel.QueueItemID  `json:"queue_item_id"`
	RunStatus   scraper.QueueStatus `json:"run_status"`
	Analysis    Analysis            `json:"analysis"`

	MatchesConsidered int `json:"matches_considered"`
	MatchesPromoted   int `json:"matches_promoted"`
	MatchesPruned     int `json:"matches_pruned"`
}
