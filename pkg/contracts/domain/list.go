package domain

const (
	// DefaultPageSize bounds list responses when the client sends no limit.
	DefaultPageSize = 25
	// MaxPageSize is the hard cap applied to any requested limit.
	MaxPageSize = 500
)

// ListRequest carries the pagination and filter parameters shared by all
// entity list endpoints.
type ListRequest struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Status string `json:"status,omitempty"`
	Query  string `json:"query,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Order  string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Normalize clamps pagination to sane bounds and defaults the sort order.
func (r *ListRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultPageSize
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Order == "" {
		r.Order = "desc"
	}
}

// ListResult wraps a page of items with the totals the table UI needs to
// drive its load-more control.
type ListResult[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
	NextOffset int  `json:"next_offset"`
}

// NewListResult computes HasMore and NextOffset from the page bounds.
// NextOffset equals Offset+len(items) so a short page never skips rows.
func NewListResult[T any](items []T, total int, req ListRequest) ListResult[T] {
	next := req.Offset + len(items)
	return ListResult[T]{
		Items:      items,
		Total:      total,
		Limit:      req.Limit,
		Offset:     req.Offset,
		HasMore:    next < total,
		NextOffset: next,
	}
}
