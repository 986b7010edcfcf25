package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size     int
		offset, limits int
	}{
		{page: 1, size: 10, offset: 0, limits: 10},
		{page: 3, size: 10, offset: 20, limits: 10},
		{page: 0, size: 0, offset: 0, limits: DefaultPageSize},
		{page: 2, size: 1000, offset: MaxPageSize, limits: MaxPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset)
		assert.Equal(t, tt.limits, limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 3, TotalPages(21, 10))
	assert.EqualValues(t, 0, TotalPages(0, 10))
}
