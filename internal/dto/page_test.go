package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(21), p.Total)
	assert.Len(t, p.Data, 2)

	empty := NewPage[int](nil, 0, 1, 10)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
}
