package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name              string
		page, size        int
		wantFrom, wantLim int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 5, 10, 5},
		{"zero page", 0, 10, 0, 10},
		{"default size", 2, 0, DefaultPageSize, DefaultPageSize},
		{"oversized", 1, 1000, 0, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantLim, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}
