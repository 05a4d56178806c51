package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_IsBusinessDay(t *testing.T) {
	cal := NewCalendar([]time.Time{day("2025-07-14")})

	assert.True(t, cal.IsBusinessDay(day("2025-07-11")), "friday")
	assert.False(t, cal.IsBusinessDay(day("2025-07-12")), "saturday")
	assert.False(t, cal.IsBusinessDay(day("2025-07-13")), "sunday")
	assert.False(t, cal.IsBusinessDay(day("2025-07-14")), "holiday")
	assert.True(t, cal.IsBusinessDay(day("2025-07-15")), "tuesday")
}

func TestCalendar_BusinessDaysBetween(t *testing.T) {
	cal := NewCalendar([]time.Time{day("2025-07-14")})

	tests := []struct {
		name     string
		from, to string
		expected int
	}{
		{name: "same day", from: "2025-07-10", to: "2025-07-10", expected: 0},
		{name: "next business day", from: "2025-07-10", to: "2025-07-11", expected: 1},
		{name: "over a weekend", from: "2025-07-11", to: "2025-07-15", expected: 1},
		{name: "weekend plus holiday monday", from: "2025-07-11", to: "2025-07-16", expected: 2},
		{name: "to before from", from: "2025-07-11", to: "2025-07-10", expected: 0},
		{name: "full week", from: "2025-07-07", to: "2025-07-11", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.BusinessDaysBetween(day(tt.from), day(tt.to)))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	// Calendar-day difference, not elapsed hours.
	late := time.Date(2025, 1, 10, 23, 30, 0, 0, time.UTC)
	early := time.Date(2025, 1, 11, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(late, early))
	assert.Equal(t, -1, daysBetween(early, late))
	assert.Equal(t, 0, daysBetween(early, early))
}
