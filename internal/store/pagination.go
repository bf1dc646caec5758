package store

// Offset pagination as exposed by the list endpoints. Pages are
// 1-indexed; Total is always computed under the same filter predicate as
// the page fetch, so the window metadata stays consistent with the data.

// PageRequest is a 1-indexed page window.
type PageRequest struct {
	Page  int
	Limit int
}

// Clamp corrects out-of-range values in place.
func (p *PageRequest) Clamp(defaultLimit, maxLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the window metadata returned with every list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes window metadata for a total row count.
func NewPagination(req PageRequest, total int) Pagination {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page*req.Limit < total,
		HasPrev:    req.Page > 1,
	}
}
