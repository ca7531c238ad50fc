package posting

import (
	"context"

	"github.com/jobradar/radar/pkg/kernel"
)

// SearchQuery is the upstream search a scrape run performs.
type SearchQuery struct {
	Keywords  []string
	Location  string
	Remote    bool
	SalaryMin int
	JobTypes  []string
	Page      int
}

// FetchResult is one page of upstream postings.
type FetchResult struct {
	Postings []JobPosting
	HasMore  bool
}

// Source is the upstream job board the scraper pulls from. Implementations
// fetch one page at a time; the orchestrator drives pagination.
type Source interface {
	FetchPage(ctx context.Context, query SearchQuery) (*FetchResult, error)
}

// SaveReport summarizes a bulk save: how many rows were written (inserted
// or updated) and how many row-level failures were skipped.
type SaveReport struct {
	Saved   int
	Skipped int
}

type Repository interface {
	// SaveAll persists postings best effort with dedup: an existing row
	// (same URL, else same title+company) is updated in place, anything
	// else inserted. A row failure is skipped and counted, never fatal.
	SaveAll(ctx context.Context, postings []JobPosting) (*SaveReport, error)

	// GetByID retrieves a posting.
	GetByID(ctx context.Context, id kernel.PostingID) (*JobPosting, error)

	// ListAll retrieves every stored posting, for the match refresh pass.
	ListAll(ctx context.Context) ([]JobPosting, error)

	// List retrieves postings with pagination, newest first.
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[JobPosting], error)
}
