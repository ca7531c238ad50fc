package resume

import (
	"github.com/jobradar/radar/pkg/kernel"
)

// ============================================================================
// Request DTOs
// ============================================================================

// ParseResumeRequest - Request to extract and parse an uploaded resume
type ParseResumeRequest struct {
	UserID   kernel.UserID `json:"user_id" validate:"required"`
	FilePath string        `json:"file_path" validate:"required"`
	FileName string        `json:"file_name" validate:"required"`
	FileType string        `json:"file_type" validate:"required,oneof=pdf docx txt"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// ParseResumeResponse - Result of a parse run
type ParseResumeResponse struct {
	ResumeID    kernel.ResumeID `json:"resume_id"`
	SkillsFound int             `json:"skills_found"`
	Parsed      *ParsedData     `json:"parsed"`
}
