package dto

import apperrors "milkdelivery/internal/errors"

// Pagination bounds for list endpoints. MaxPage keeps Offset well inside int range.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1000000
)

// ListQuery carries the paging and search parameters shared by list endpoints.
type ListQuery struct {
	Page     int    `query:"page" validate:"omitempty,gte=1,lte=1000000"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	Search   string `query:"search" validate:"max=255"`
}

// UserQuery adds the partner filter to ListQuery.
type UserQuery struct {
	ListQuery
	IsPartner *bool `query:"is_partner"`
}

// ProductQuery adds the category filter to ListQuery.
type ProductQuery struct {
	ListQuery
	Category *uint `query:"category"`
}

// Normalize validates the parameters and fills in defaults.
func (q *ListQuery) Normalize() error {
	verr := &apperrors.ValidationError{}
	collect(verr, validate.Struct(q))
	if err := verr.OrNil(); err != nil {
		return err
	}
	q.ApplyDefaults()
	return nil
}

// ApplyDefaults fills in page 1 and the default page size.
func (q *ListQuery) ApplyDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
}

// Offset is the number of rows skipped before the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page is a paginated list response.
type Page[T any] struct {
	Results    []T   `json:"results"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPage wraps one page of results.
func NewPage[T any](results []T, q ListQuery, total int64) Page[T] {
	if results == nil {
		results = []T{}
	}
	pages := 0
	if q.PageSize > 0 {
		pages = int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	}
	return Page[T]{
		Results:    results,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: pages,
	}
}
