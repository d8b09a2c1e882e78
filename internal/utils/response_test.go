package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, Limit: 0}},
		{"page=2&limit=10", PaginationParams{Page: 2, Limit: 10}},
		{"page=0&limit=-5", PaginationParams{Page: 1, Limit: 0}},
		{"limit=1000", PaginationParams{Page: 1, Limit: 100}},
		{"page=abc", PaginationParams{Page: 1, Limit: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePaginationParams(contextWithQuery(tt.query), 100))
		})
	}
}

func TestWindow(t *testing.T) {
	start, end := PaginationParams{Page: 1}.Window(7)
	assert.Equal(t, []int{0, 7}, []int{start, end})

	start, end = PaginationParams{Page: 2, Limit: 3}.Window(7)
	assert.Equal(t, []int{3, 6}, []int{start, end})

	start, end = PaginationParams{Page: 3, Limit: 3}.Window(7)
	assert.Equal(t, []int{6, 7}, []int{start, end})

	start, end = PaginationParams{Page: 9, Limit: 3}.Window(7)
	assert.Equal(t, []int{7, 7}, []int{start, end})
}

func TestWindowHugePageIsEmpty(t *testing.T) {
	start, end := PaginationParams{Page: 1 << 62, Limit: 100}.Window(3)
	assert.Equal(t, []int{3, 3}, []int{start, end})

	items := []string{"a", "b", "c"}
	assert.Empty(t, items[start:end])

	start, end = PaginationParams{Page: 1, Limit: 3}.Window(0)
	assert.Equal(t, []int{0, 0}, []int{start, end})
}

func TestPaginationMetadata(t *testing.T) {
	meta := NewPaginationMetadata(7, PaginationParams{Page: 1, Limit: 3})
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 3, meta.ItemsPerPage)

	meta = NewPaginationMetadata(0, PaginationParams{Page: 1})
	assert.Equal(t, 1, meta.TotalPages)
}
