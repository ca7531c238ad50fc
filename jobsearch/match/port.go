package match

import (
	"context"

	"github.com/jobradar/radar/pkg/kernel"
)

type Repository interface {
	// ReplaceForResume atomically swaps a user's matches for a resume:
	// delete existing rows, insert the new set, one transaction. A
	// reader never observes the in-between state.
	ReplaceForResume(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID, matches []JobMatch) error

	// GetByID retrieves one match.
	GetByID(ctx context.Context, id kernel.MatchID) (*JobMatch, error)

	// ListByUser retrieves a user's matches at or above minScore,
	// highest score first.
	ListByUser(ctx context.Context, userID kernel.UserID, minScore int, pagination kernel.PaginationOptions) (*kernel.Paginated[JobMatch], error)

	// ListForEnhancement retrieves every match of a user at or above
	// minScore, unpaginated, for the enhancement pass.
	ListForEnhancement(ctx context.Context, userID kernel.UserID, minScore int) ([]JobMatch, error)

	// UpdateScore sets a match's score, category, and enhanced flag.
	UpdateScore(ctx context.Context, id kernel.MatchID, score int, aiEnhanced bool) error

	// Delete removes a match row.
	Delete(ctx context.Context, id kernel.MatchID) error
}
