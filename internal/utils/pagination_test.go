package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculatePaginationMetadata(t *testing.T) {
	meta := CalculatePaginationMetadata(45, 20, 20)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)

	last := CalculatePaginationMetadata(45, 20, 40)
	assert.False(t, last.HasMore)

	empty := CalculatePaginationMetadata(0, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasMore)
}

func TestPaginationFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/lgpd/requests?limit=500&offset=-3", nil)

	params := PaginationFromQuery(c)
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, 0, params.Offset)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/lgpd/requests?limit=abc", nil)
	params = PaginationFromQuery(c)
	assert.Equal(t, 20, params.Limit)
}
