package match

import (
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

// Category buckets a score for display and filtering.
type Category string

const (
	CategoryExcellent Category = "excellent" // >= 90
	CategoryStrong    Category = "strong"    // >= 80
	CategoryGood      Category = "good"      // >= 70
	CategoryLow       Category = "low"
)

// CategoryForScore maps a 0-100 score onto its category.
func CategoryForScore(score int) Category {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryStrong
	case score >= 70:
		return CategoryGood
	default:
		return CategoryLow
	}
}

// JobMatch links a user's resume to a job posting with a relevance score.
// Matches are derived data: a refresh rebuilds them wholesale and an
// enhancement pass may promote or prune individual rows.
type JobMatch struct {
	ID        kernel.MatchID   `db:"id" json:"id"`
	UserID    kernel.UserID    `db:"user_id" json:"user_id"`
	ResumeID  kernel.ResumeID  `db:"resume_id" json:"resume_id"`
	PostingID kernel.PostingID `db:"posting_id" json:"posting_id"`

	Score         int      `db:"score" json:"score"`
	Category      Category `db:"category" json:"category"`
	MatchedSkills []string `db:"matched_skills" json:"matched_skills"`
	AIEnhanced    bool     `db:"ai_enhanced" json:"ai_enhanced"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Persistence and enhancement thresholds.
const (
	// MinScoreToKeep is the floor below which a scored pair is not
	// worth a match row.
	MinScoreToKeep = 50

	// MinScoreToPromote is the enhancement cutoff: an enhanced score
	// below it prunes the match instead of updating it.
	MinScoreToPromote = 70
)
