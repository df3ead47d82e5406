// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// FormatAgeFromDays renders an age in days as the timeline label parents see,
// e.g. "At birth", "6 weeks", "9 months", "1 year 6 months".
func FormatAgeFromDays(days int) string {
	if days <= 0 {
		return "At birth"
	}
	if days < 7 {
		return fmt.Sprintf("%d %s", days, plural("day", days))
	}
	if days < 30 {
		weeks := days / 7
		return fmt.Sprintf("%d %s", weeks, plural("week", weeks))
	}
	if days < 365 {
		months := days / 30
		return fmt.Sprintf("%d %s", months, plural("month", months))
	}

	years := days / 365
	remainingMonths := (days % 365) / 30
	if remainingMonths == 0 {
		return fmt.Sprintf("%d %s", years, plural("year", years))
	}
	return fmt.Sprintf("%d %s %d %s", years, plural("year", years), remainingMonths, plural("month", remainingMonths))
}

// FormatAge renders a child's current age, months-first under a year.
func FormatAge(dateOfBirth, asOf time.Time) string {
	months := (asOf.Year()-dateOfBirth.Year())*12 + int(asOf.Month()) - int(dateOfBirth.Month())
	if asOf.Day() < dateOfBirth.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	if months < 12 {
		return fmt.Sprintf("%d %s", months, plural("month", months))
	}
	years := months / 12
	rest := months % 12
	if rest == 0 {
		return fmt.Sprintf("%d %s", years, plural("year", years))
	}
	return fmt.Sprintf("%d %s %d %s", years, plural("year", years), rest, plural("month", rest))
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
