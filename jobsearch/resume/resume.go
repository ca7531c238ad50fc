package resume

import (
	"time"

	"github.com/jobradar/radar/pkg/kernel"
)

// Resume represents an uploaded resume file and, once processing has run,
// the structured information extracted from it. ParsedData stays nil until
// parsing completes, which is how callers tell "uploaded but not parsed"
// apart from "parsed".
type Resume struct {
	ID     kernel.ResumeID `db:"id" json:"id"`
	UserID kernel.UserID   `db:"user_id" json:"user_id"`

	// File metadata
	FileName string `db:"file_name" json:"file_name"`
	FileURL  string `db:"file_url" json:"file_url"`
	FileType string `db:"file_type" json:"file_type"`

	// Extracted content, nil until parsed
	ParsedData *ParsedData `db:"parsed_data" json:"parsed_data,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParsedData is the structured result of text extraction plus heuristic
// parsing. All slices are non-nil after parsing, possibly empty.
type ParsedData struct {
	PersonalInfo PersonalInfo      `json:"personal_info"`
	Skills       []string          `json:"skills"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	FullText     string            `json:"full_text"`
	ParsedAt     time.Time         `json:"parsed_at"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Dates       string `json:"dates"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsParsed reports whether extraction and parsing have completed.
func (r *Resume) IsParsed() bool {
	return r.ParsedData != nil
}

// Skills returns the parsed skill list, or nil when the resume has not
// been parsed yet.
func (r *Resume) Skills() []string {
	if r.ParsedData == nil {
		return nil
	}
	return r.ParsedData.Skills
}
