package posting

import (
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

// JobPosting is a job listing pulled from an upstream source, enriched by
// Normalize with the skill and requirement fields the matcher consumes.
type JobPosting struct {
	ID      kernel.PostingID `db:"id" json:"id"`
	Title   string           `db:"title" json:"title"`
	Company string           `db:"company" json:"company"`

	Location string `db:"location" json:"location"`
	URL      string `db:"url" json:"url,omitempty"`
	Salary   string `db:"salary" json:"salary,omitempty"`
	Source   string `db:"source" json:"source"`

	Description string `db:"description" json:"description"`

	// Derived by Normalize, never nil after it runs
	SkillsRequired []string `db:"skills_required" json:"skills_required"`
	Requirements   []string `db:"requirements" json:"requirements"`

	PostedAt  time.Time `db:"posted_at" json:"posted_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

