package scraper

import (
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

// Frequency is how often a configuration should be scraped.
type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyManual Frequency = "manual"
)

func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Configuration describes a saved job search: what to look for and how
// often to run it.
type Configuration struct {
	ID     kernel.ConfigID `db:"id" json:"id"`
	UserID kernel.UserID   `db:"user_id" json:"user_id"`

	Name             string    `db:"name" json:"name"`
	Keywords         []string  `db:"keywords" json:"keywords"`
	Location         string    `db:"location" json:"location"`
	Remote           bool      `db:"remote" json:"remote"`
	SalaryMin        int       `db:"salary_min" json:"salary_min"`
	SalaryMax        int       `db:"salary_max" json:"salary_max"`
	JobTypes         []string  `db:"job_types" json:"job_types"`
	Industries       []string  `db:"industries" json:"industries"`
	ExperienceLevels []string  `db:"experience_levels" json:"experience_levels"`
	EmailAlerts      bool      `db:"email_alerts" json:"email_alerts"`
	Frequency        Frequency `db:"frequency" json:"frequency"`
	IsActive         bool      `db:"is_active" json:"is_active"`

	// LastRunAt is stamped when a run completes, not when it is queued.
	// LastError mirrors the most recent failed run and is cleared by the
	// next successful one.
	LastRunAt *time.Time `db:"last_run_at" json:"last_run_at,omitempty"`
	LastError string     `db:"last_error" json:"last_error,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsDue reports whether a scheduled run is owed. Manual configurations are
// never due; a configuration that has never run is due immediately.
func (c *Configuration) IsDue(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	interval := c.Frequency.Interval()
	if interval == 0 {
		return false
	}
	if c.LastRunAt == nil {
		return true
	}
	return now.Sub(*c.LastRunAt) >= interval
}
