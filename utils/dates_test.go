package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(start, end))
	assert.Equal(t, -1, DaysBetween(end, start))
	assert.Equal(t, 0, DaysBetween(start, start))
}

func TestDaysBetweenAcrossMonths(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// 2024 is a leap year
	assert.Equal(t, 60, DaysBetween(start, end))
}

func TestFormatAgeFromDays(t *testing.T) {
	cases := []struct {
		days     int
		expected string
	}{
		{0, "At birth"},
		{1, "1 day"},
		{5, "5 days"},
		{7, "1 week"},
		{14, "2 weeks"},
		{42, "1 month"},
		{98, "3 months"},
		{274, "9 months"},
		{365, "1 year"},
		{547, "1 year 6 months"},
		{1825, "5 years"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, FormatAgeFromDays(tc.days), "days=%d", tc.days)
	}
}

func TestFormatAge(t *testing.T) {
	dob := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2 months", FormatAge(dob, time.Date(2022, 5, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 year", FormatAge(dob, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2 years 3 months", FormatAge(dob, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "0 months", FormatAge(dob, dob))
}
