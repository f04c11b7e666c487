package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunks(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, Chunks([]int{1, 2, 3, 4, 5, 6, 7}, 3))
	assert.Equal(t, [][]int{{1, 2}}, Chunks([]int{1, 2}, 5))
	assert.Empty(t, Chunks([]int{}, 3))
}

func TestUniques(t *testing.T) {
	// first occurrence wins, order is preserved
	assert.Equal(t, []int{3, 1, 2}, Uniques([]int{3, 1, 3, 2, 1}))
	assert.Empty(t, Uniques([]int{}))
}
