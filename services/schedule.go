// services/schedule.go
package services

import (
	"errors"
	"sort"
	"time"
	"vaxtracker-backend/models"
	"vaxtracker-backend/utils"
)

// DoseStatus is the computed state of one scheduled dose.
type DoseStatus string

const (
	StatusCompleted DoseStatus = "completed"
	StatusDue       DoseStatus = "due"
	StatusOverdue   DoseStatus = "overdue"
	StatusUpcoming  DoseStatus = "upcoming"
)

// A dose more than this many days past due is overdue.
const overdueGraceDays = 30

// A dose within this many days of its due date counts as urgent.
const urgentWindowDays = 7

// ErrMissingBirthDate is returned when a child has no usable date of birth.
// A schedule must never be derived from an invalid birth date.
var ErrMissingBirthDate = errors.New("child has no date of birth")

// ScheduledDose is one row of a child's computed vaccination timeline. It is
// derived on every read and never persisted.
type ScheduledDose struct {
	Vaccine  models.Vaccine              `json:"vaccine"`
	Entry    models.VaccineScheduleEntry `json:"schedule"`
	DueDate  time.Time                   `json:"dueDate"`
	Status   DoseStatus                  `json:"status"`
	Record   *models.VaccinationRecord   `json:"vaccinationRecord,omitempty"`
	IsUrgent bool                        `json:"isUrgent"`
}

// ScheduleStats is the per-status rollup of a schedule.
type ScheduleStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Due       int `json:"due"`
	Overdue   int `json:"overdue"`
	Upcoming  int `json:"upcoming"`
}

// GenerateSchedule derives the full vaccination timeline for a child: one
// ScheduledDose per catalog entry of an active vaccine, with due date and
// status computed against asOf. Records are matched by (vaccine, dose number)
// with completed status. The result is sorted ascending by recommended age;
// the sort is stable so same-day doses keep catalog order.
//
// The function is pure: same inputs and asOf always produce the same output,
// and nothing passed in is retained or mutated.
func GenerateSchedule(child *models.Child, records []models.VaccinationRecord, catalog *Catalog, asOf time.Time) ([]ScheduledDose, error) {
	if child.DateOfBirth.IsZero() {
		return nil, ErrMissingBirthDate
	}

	birthDate := utils.BeginningOfDay(child.DateOfBirth)
	childAgeDays := utils.DaysBetween(birthDate, asOf)

	schedule := make([]ScheduledDose, 0, len(catalog.Entries))

	for _, entry := range catalog.Entries {
		vaccine := catalog.VaccineByID(entry.VaccineID)
		if vaccine == nil || !vaccine.IsActive {
			continue
		}

		record := findCompletedRecord(records, entry.VaccineID, entry.DoseNumber)

		dueDate := birthDate.AddDate(0, 0, entry.RecommendedAgeDays)
		daysSinceDue := utils.DaysBetween(dueDate, asOf)

		var status DoseStatus
		switch {
		case record != nil:
			status = StatusCompleted
		case childAgeDays < entry.RecommendedAgeDays-urgentWindowDays:
			status = StatusUpcoming
		case daysSinceDue > overdueGraceDays:
			status = StatusOverdue
		default:
			status = StatusDue
		}

		isUrgent := status == StatusOverdue ||
			(status == StatusDue && abs(daysSinceDue) <= urgentWindowDays)

		schedule = append(schedule, ScheduledDose{
			Vaccine:  *vaccine,
			Entry:    entry,
			DueDate:  dueDate,
			Status:   status,
			Record:   record,
			IsUrgent: isUrgent,
		})
	}

	sort.SliceStable(schedule, func(i, j int) bool {
		return schedule[i].Entry.RecommendedAgeDays < schedule[j].Entry.RecommendedAgeDays
	})

	return schedule, nil
}

// Stats counts a schedule's doses by status. Total always equals the sum of
// the four status counts.
func Stats(schedule []ScheduledDose) ScheduleStats {
	stats := ScheduleStats{Total: len(schedule)}
	for _, dose := range schedule {
		switch dose.Status {
		case StatusCompleted:
			stats.Completed++
		case StatusDue:
			stats.Due++
		case StatusOverdue:
			stats.Overdue++
		case StatusUpcoming:
			stats.Upcoming++
		}
	}
	return stats
}

// UpcomingWithin filters a schedule down to doses needing attention: every
// due or overdue dose, plus upcoming doses whose due date falls within the
// next daysAhead days. Input order is preserved.
func UpcomingWithin(schedule []ScheduledDose, daysAhead int, asOf time.Time) []ScheduledDose {
	horizon := utils.BeginningOfDay(asOf).AddDate(0, 0, daysAhead)

	upcoming := make([]ScheduledDose, 0)
	for _, dose := range schedule {
		switch dose.Status {
		case StatusDue, StatusOverdue:
			upcoming = append(upcoming, dose)
		case StatusUpcoming:
			if !dose.DueDate.After(horizon) {
				upcoming = append(upcoming, dose)
			}
		}
	}
	return upcoming
}

func findCompletedRecord(records []models.VaccinationRecord, vaccineID string, doseNumber int) *models.VaccinationRecord {
	for i := range records {
		r := &records[i]
		if r.VaccineID == vaccineID && r.DoseNumber == doseNumber && r.Status == models.RecordCompleted {
			return r
		}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
