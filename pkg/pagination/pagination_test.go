package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPagesNeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(-3, 10))
	assert.Equal(t, 1, TotalPages(10, 0))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(23, 10))
}

func TestIndexesAcrossPages(t *testing.T) {
	cases := []struct {
		page       int
		start, end int64
	}{
		{1, 1, 10},
		{2, 11, 20},
		{3, 21, 23},
		{4, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.start, StartIndex(tc.page, 10, 23), "page %d", tc.page)
		assert.Equal(t, tc.end, EndIndex(tc.page, 10, 23), "page %d", tc.page)
	}

	assert.Zero(t, StartIndex(1, 10, 0))
	assert.Zero(t, EndIndex(1, 10, 0))
}

func TestValidateClampsParams(t *testing.T) {
	p := &PaginationParams{Page: -1, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset())

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 23)
	assert.Equal(t, 3, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)
	assert.EqualValues(t, 11, pag.StartIndex)
	assert.EqualValues(t, 20, pag.EndIndex)
}
