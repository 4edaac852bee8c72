package model

import "errors"

// MaxPageSize bounds every paginated listing.
const MaxPageSize = 10

var (
	ErrInvalidPage     = errors.New("page must be greater than or equal to 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 10")
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

func (r PageRequest) Validate() error {
	if r.Page < 1 {
		return ErrInvalidPage
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	return nil
}

// Offset returns the number of items preceding the page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Page is one page of a listing. An empty Items slice with zero TotalCount is valid.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	PageSize   int
}

// NewPage builds a Page, normalizing nil items to an empty slice.
func NewPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
}

// TotalPages returns the number of pages needed for TotalCount.
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount == 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}
