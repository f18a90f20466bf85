package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-management-api/internal/constants"
)

// PaginationParams selects one window of an ordered list. The zero value
// selects the whole list.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Unbounded reports whether the params select the whole list.
func (p PaginationParams) Unbounded() bool {
	return p.Limit <= 0
}

// PaginationResponse is the page metadata returned next to a paginated list.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPaginationResponse describes the page selected by params out of total items.
func NewPaginationResponse(params PaginationParams, total int64) PaginationResponse {
	resp := PaginationResponse{Page: params.Page, Limit: params.Limit, Total: total}
	if params.Limit > 0 {
		resp.Pages = (total + int64(params.Limit) - 1) / int64(params.Limit)
	}
	return resp
}

// ParsePagination reads the page and limit query parameters. When the request
// carries neither, it returns the zero params and false so the caller serves
// the full list. Out-of-range values fall back to the first page and the
// default page size.
func ParsePagination(c *gin.Context) (PaginationParams, bool) {
	pageRaw, hasPage := c.GetQuery("page")
	limitRaw, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}, false
	}

	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{Page: page, Limit: limit, Offset: (page - 1) * limit}, true
}
