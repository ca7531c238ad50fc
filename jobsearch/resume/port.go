package resume

import (
	"context"

	"github.com/jobradar/radar/pkg/kernel"
)

type Repository interface {
	// Create inserts a new resume record.
	Create(ctx context.Context, resume *Resume) error

	// GetByID retrieves a resume by ID.
	GetByID(ctx context.Context, id kernel.ResumeID) (*Resume, error)

	// GetByUserID retrieves the most recent resume for a user.
	GetByUserID(ctx context.Context, userID kernel.UserID) (*Resume, error)

	// ListByUserID retrieves all resumes for a user, newest first.
	ListByUserID(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Resume], error)

	// UpdateParsedData stores the parse result for a resume.
	UpdateParsedData(ctx context.Context, id kernel.ResumeID, parsed *ParsedData) error

	// Delete removes a resume record.
	Delete(ctx context.Context, id kernel.ResumeID) error
}
