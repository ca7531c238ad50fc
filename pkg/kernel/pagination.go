package kernel

// PaginationOptions carries page-oriented query parameters. Zero values
// are normalized to the first page with a sane size.
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p PaginationOptions) Normalize() PaginationOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p PaginationOptions) Limit() int  { return p.PageSize }
func (p PaginationOptions) Offset() int { return (p.Page - 1) * p.PageSize }

// Page describes the slice of results returned.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Paginated bundles a page of items with its page metadata.
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"page"`
}

func NewPaginated[T any](items []T, opts PaginationOptions, total int64) Paginated[T] {
	opts = opts.Normalize()
	pages := int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	return Paginated[T]{
		Items: items,
		Page: Page{
			Number:     opts.Page,
			Size:       opts.PageSize,
			Total:      total,
			TotalPages: pages,
		},
	}
}
