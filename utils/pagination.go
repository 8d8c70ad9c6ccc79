package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination represents pagination parameters
type Pagination struct {
	Page   int
	Limit  int
	Offset int
	Total  int64
}

// NewPagination creates a Pagination from the request's page/limit query
// parameters, defaulting to page 1 / 20 per page and capping limit at 100.
func NewPagination(c *gin.Context) *Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	return &Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages returns the page count for the recorded total
func (p *Pagination) TotalPages() int64 {
	if p.Limit == 0 {
		return 0
	}
	return (p.Total + int64(p.Limit) - 1) / int64(p.Limit)
}

// Paginated sends data wrapped with pagination metadata in the standard
// success envelope.
func Paginated(c *gin.Context, data interface{}, p *Pagination) {
	OK(c, gin.H{
		"data": data,
		"pagination": gin.H{
			"page":       p.Page,
			"limit":      p.Limit,
			"total":      p.Total,
			"totalPages": p.TotalPages(),
		},
	}, "")
}
