package handler

import "github.com/vendorsync/backend/internal/domain/shared"

// ListRequest represents common list and pagination query parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
}

// ToFilter converts the request to a domain filter with defaults applied
func (r ListRequest) ToFilter() shared.Filter {
	page := r.Page
	if page < 1 {
		page = 1
	}
	pageSize := r.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   r.Search,
		Filters:  make(map[string]interface{}),
	}
}
