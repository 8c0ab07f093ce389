package pagination

import "math"

const (
	// DefaultPerPage is used when no page size is supplied
	DefaultPerPage = 10
	// MaxPerPage caps a single page request
	MaxPerPage = 100
)

// Pagination represents pagination parameters
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	StartIndex  int64 `json:"start_index"`
	EndIndex    int64 `json:"end_index"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset calculates the zero-based offset of the first item on the page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages is ceil(total/perPage), never less than one page
func TotalPages(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// StartIndex is the 1-based position of the first item on the page, 0 when empty
func StartIndex(page, perPage int, total int64) int64 {
	if total <= 0 || page < 1 {
		return 0
	}
	start := int64(page-1)*int64(perPage) + 1
	if start > total {
		return 0
	}
	return start
}

// EndIndex is the 1-based position of the last item on the page, 0 when empty
func EndIndex(page, perPage int, total int64) int64 {
	if StartIndex(page, perPage, total) == 0 {
		return 0
	}
	end := int64(page) * int64(perPage)
	if end > total {
		return total
	}
	return end
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := TotalPages(total, perPage)

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		StartIndex:  StartIndex(page, perPage, total),
		EndIndex:    EndIndex(page, perPage, total),
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}
