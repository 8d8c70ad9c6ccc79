package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(t *testing.T, query string) *Pagination {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return NewPagination(c)
}

func TestNewPaginationDefaults(t *testing.T) {
	p := paginationFor(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestNewPaginationParsesQuery(t *testing.T) {
	p := paginationFor(t, "page=3&limit=50")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 100, p.Offset)
}

func TestNewPaginationClampsInvalidValues(t *testing.T) {
	p := paginationFor(t, "page=-2&limit=5000")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = paginationFor(t, "page=abc&limit=xyz")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestTotalPages(t *testing.T) {
	p := &Pagination{Limit: 20, Total: 41}
	assert.Equal(t, int64(3), p.TotalPages())

	p.Total = 0
	assert.Equal(t, int64(0), p.TotalPages())

	p.Limit = 0
	assert.Equal(t, int64(0), p.TotalPages())
}
