package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Run("Partial last page rounds up", func(t *testing.T) {
		p := NewPagination(1, 10, 25)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, int64(25), p.TotalItems)
		assert.True(t, p.HasNextPage)
		assert.False(t, p.HasPrevPage)
	})

	t.Run("Exact multiple", func(t *testing.T) {
		p := NewPagination(2, 10, 30)
		assert.Equal(t, 3, p.TotalPages)
		assert.True(t, p.HasNextPage)
		assert.True(t, p.HasPrevPage)
	})

	t.Run("Last page has no next", func(t *testing.T) {
		p := NewPagination(3, 10, 25)
		assert.False(t, p.HasNextPage)
		assert.True(t, p.HasPrevPage)
	})

	t.Run("Empty result set", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNextPage)
		assert.False(t, p.HasPrevPage)
	})
}
