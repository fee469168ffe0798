package dateutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFractionalAge(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		month    int
		expected string
	}{
		{name: "opening point", age: 35, month: 0, expected: "35"},
		{name: "half year", age: 35, month: 6, expected: "35.5"},
		{name: "retirement", age: 35, month: 384, expected: "67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FractionalAge(tt.age, tt.month)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestYearOfMonth(t *testing.T) {
	assert.Equal(t, 0, YearOfMonth(0))
	assert.Equal(t, 0, YearOfMonth(11))
	assert.Equal(t, 1, YearOfMonth(12))
	assert.Equal(t, 32, YearOfMonth(384))
	assert.Equal(t, 0, YearOfMonth(-5))
}

func TestCalendarYear(t *testing.T) {
	// Month arithmetic starts at the first of the month so day overflow cannot shift the year
	start := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, CalendarYear(start, 0))
	assert.Equal(t, 2025, CalendarYear(start, 2))
	assert.Equal(t, 2026, CalendarYear(start, 3))
	assert.Equal(t, 2057, CalendarYear(start, 384))
}
