package dto

// Paginated is the list envelope used by every collection endpoint.
type Paginated[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	Results    []T   `json:"results"`
}

// PageParams is the parsed ?page=&page_size= pair.
type PageParams struct {
	Page     int
	PageSize int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPaginated creates a paginated response
func NewPaginated[T any](results []T, total int64, p PageParams) *Paginated[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := total / int64(p.PageSize)
	if total%int64(p.PageSize) != 0 {
		totalPages++
	}
	return &Paginated[T]{
		Count:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
		Results:    results,
	}
}

// MapPaginated converts models into responses while keeping the envelope.
func MapPaginated[M, R any](items []M, total int64, p PageParams, conv func(M) R) *Paginated[R] {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, conv(it))
	}
	return NewPaginated(out, total, p)
}
