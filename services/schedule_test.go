package services

import (
	"testing"
	"time"
	"vaxtracker-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChild(dateOfBirth time.Time) *models.Child {
	return &models.Child{
		ID:          uuid.New(),
		ParentID:    uuid.New(),
		FullName:    "Emma Doe",
		DateOfBirth: dateOfBirth,
		Gender:      "female",
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestGenerateScheduleProducesOneDosePerActiveEntry(t *testing.T) {
	catalog := DefaultCatalog()
	child := testChild(date(2024, 1, 1))

	schedule, err := GenerateSchedule(child, nil, catalog, date(2024, 1, 1))
	require.NoError(t, err)

	assert.Len(t, schedule, len(catalog.Entries))

	seen := make(map[string]bool)
	for _, dose := range schedule {
		assert.False(t, seen[dose.Entry.ID], "duplicate dose for entry %s", dose.Entry.ID)
		seen[dose.Entry.ID] = true
	}
}

func TestGenerateScheduleSkipsInactiveVaccines(t *testing.T) {
	catalog := DefaultCatalog()
	for i := range catalog.Vaccines {
		if catalog.Vaccines[i].ID == "mmr" {
			catalog.Vaccines[i].IsActive = false
		}
	}

	schedule, err := GenerateSchedule(testChild(date(2024, 1, 1)), nil, catalog, date(2024, 1, 1))
	require.NoError(t, err)

	for _, dose := range schedule {
		assert.NotEqual(t, "mmr", dose.Vaccine.ID)
	}
	assert.Len(t, schedule, len(DefaultCatalog().Entries)-2)
}

func TestGenerateScheduleRejectsMissingBirthDate(t *testing.T) {
	child := &models.Child{ID: uuid.New(), FullName: "No DOB"}

	_, err := GenerateSchedule(child, nil, DefaultCatalog(), time.Now())
	assert.ErrorIs(t, err, ErrMissingBirthDate)
}

func TestBirthDoseDueAndUrgentOnBirthday(t *testing.T) {
	// Child born 2024-01-01, asOf the same day: a recommendedAgeDays=0 dose
	// is due (daysSinceDue=0) and urgent (within 7 days of due).
	child := testChild(date(2024, 1, 1))

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), date(2024, 1, 1))
	require.NoError(t, err)

	bcg := findDose(t, schedule, "bcg", 1)
	assert.Equal(t, StatusDue, bcg.Status)
	assert.True(t, bcg.IsUrgent)
	assert.Equal(t, date(2024, 1, 1), bcg.DueDate)
}

func TestBirthDoseOverdueAfterGracePeriod(t *testing.T) {
	// Same dose at day 60: daysSinceDue=60 > 30, so overdue and urgent.
	child := testChild(date(2024, 1, 1))

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), date(2024, 3, 1))
	require.NoError(t, err)

	bcg := findDose(t, schedule, "bcg", 1)
	assert.Equal(t, StatusOverdue, bcg.Status)
	assert.True(t, bcg.IsUrgent)
}

func TestDoseUpcomingMoreThanAWeekBeforeRecommendedAge(t *testing.T) {
	// MMR dose 1 has recommendedAgeDays=274; at age 200 it is upcoming.
	child := testChild(date(2024, 1, 1))
	asOf := date(2024, 1, 1).AddDate(0, 0, 200)

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), asOf)
	require.NoError(t, err)

	mmr := findDose(t, schedule, "mmr", 1)
	assert.Equal(t, StatusUpcoming, mmr.Status)
	assert.False(t, mmr.IsUrgent)
}

func TestDoseBecomesDueExactlyOneWeekBeforeRecommendedAge(t *testing.T) {
	// DPT dose 1 is recommended at day 42; at age 35 the upcoming window
	// closes and the dose counts as due (and urgent, 7 days out).
	child := testChild(date(2024, 1, 1))

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), date(2024, 1, 1).AddDate(0, 0, 35))
	require.NoError(t, err)

	dpt := findDose(t, schedule, "dpt", 1)
	assert.Equal(t, StatusDue, dpt.Status)
	assert.True(t, dpt.IsUrgent)
}

func TestCompletedRecordAttachesToDose(t *testing.T) {
	child := testChild(date(2024, 1, 1))
	records := []models.VaccinationRecord{
		{
			ID:              uuid.New(),
			ChildID:         child.ID,
			VaccineID:       "bcg",
			DoseNumber:      1,
			VaccinationDate: date(2024, 1, 2),
			Status:          models.RecordCompleted,
		},
		{
			// A missed record must not mark the dose completed
			ID:              uuid.New(),
			ChildID:         child.ID,
			VaccineID:       "hepb",
			DoseNumber:      1,
			VaccinationDate: date(2024, 1, 2),
			Status:          models.RecordMissed,
		},
	}

	schedule, err := GenerateSchedule(child, records, DefaultCatalog(), date(2024, 3, 1))
	require.NoError(t, err)

	bcg := findDose(t, schedule, "bcg", 1)
	assert.Equal(t, StatusCompleted, bcg.Status)
	require.NotNil(t, bcg.Record)
	assert.Equal(t, records[0].ID, bcg.Record.ID)
	assert.False(t, bcg.IsUrgent)

	hepb := findDose(t, schedule, "hepb", 1)
	assert.Equal(t, StatusOverdue, hepb.Status)
	assert.Nil(t, hepb.Record)
}

func TestScheduleSortedByRecommendedAgeStable(t *testing.T) {
	child := testChild(date(2024, 1, 1))

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), date(2024, 1, 1))
	require.NoError(t, err)

	for i := 1; i < len(schedule); i++ {
		assert.LessOrEqual(t,
			schedule[i-1].Entry.RecommendedAgeDays,
			schedule[i].Entry.RecommendedAgeDays)
	}

	// Birth doses share recommendedAgeDays=0 and must keep catalog order
	assert.Equal(t, "bcg-1", schedule[0].Entry.ID)
	assert.Equal(t, "hepb-1", schedule[1].Entry.ID)
	assert.Equal(t, "opv-1", schedule[2].Entry.ID)
}

func TestGenerateScheduleIsIdempotent(t *testing.T) {
	child := testChild(date(2022, 3, 15))
	records := []models.VaccinationRecord{
		{ID: uuid.New(), ChildID: child.ID, VaccineID: "bcg", DoseNumber: 1, Status: models.RecordCompleted},
	}
	asOf := date(2024, 6, 1)

	first, err := GenerateSchedule(child, records, DefaultCatalog(), asOf)
	require.NoError(t, err)
	second, err := GenerateSchedule(child, records, DefaultCatalog(), asOf)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFutureBirthDateYieldsAllUpcoming(t *testing.T) {
	asOf := date(2024, 1, 1)
	child := testChild(date(2024, 6, 1))

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), asOf)
	require.NoError(t, err)

	for _, dose := range schedule {
		assert.Equal(t, StatusUpcoming, dose.Status, "entry %s", dose.Entry.ID)
	}
}

func TestStatusNeverRegressesAsTimeAdvances(t *testing.T) {
	child := testChild(date(2024, 1, 1))
	catalog := DefaultCatalog()

	rank := map[DoseStatus]int{StatusUpcoming: 0, StatusDue: 1, StatusOverdue: 2}
	previous := make(map[string]DoseStatus)

	for ageDays := 0; ageDays <= 800; ageDays += 5 {
		schedule, err := GenerateSchedule(child, nil, catalog, date(2024, 1, 1).AddDate(0, 0, ageDays))
		require.NoError(t, err)

		for _, dose := range schedule {
			if prev, ok := previous[dose.Entry.ID]; ok {
				assert.GreaterOrEqual(t, rank[dose.Status], rank[prev],
					"entry %s regressed from %s to %s at age %d", dose.Entry.ID, prev, dose.Status, ageDays)
			}
			previous[dose.Entry.ID] = dose.Status
		}
	}
}

func TestStatsCountsMatchSchedule(t *testing.T) {
	child := testChild(date(2023, 1, 1))
	records := []models.VaccinationRecord{
		{ID: uuid.New(), ChildID: child.ID, VaccineID: "bcg", DoseNumber: 1, Status: models.RecordCompleted},
		{ID: uuid.New(), ChildID: child.ID, VaccineID: "hepb", DoseNumber: 1, Status: models.RecordCompleted},
		{ID: uuid.New(), ChildID: child.ID, VaccineID: "hepb", DoseNumber: 2, Status: models.RecordCompleted},
	}

	schedule, err := GenerateSchedule(child, records, DefaultCatalog(), date(2024, 6, 1))
	require.NoError(t, err)

	stats := Stats(schedule)
	assert.Equal(t, len(schedule), stats.Total)
	assert.Equal(t, stats.Total, stats.Completed+stats.Due+stats.Overdue+stats.Upcoming)
	assert.Equal(t, 3, stats.Completed)
}

func TestUpcomingWithinHorizon(t *testing.T) {
	child := testChild(date(2024, 1, 1))
	asOf := date(2024, 1, 1)

	schedule, err := GenerateSchedule(child, nil, DefaultCatalog(), asOf)
	require.NoError(t, err)

	upcoming := UpcomingWithin(schedule, 30, asOf)

	for _, dose := range upcoming {
		if dose.Status == StatusUpcoming {
			assert.False(t, dose.DueDate.After(asOf.AddDate(0, 0, 30)),
				"upcoming entry %s outside horizon", dose.Entry.ID)
		}
	}

	// Birth doses are due on day 0, day-42 doses are outside a 30 day window
	ids := make([]string, 0, len(upcoming))
	for _, dose := range upcoming {
		ids = append(ids, dose.Entry.ID)
	}
	assert.Contains(t, ids, "bcg-1")
	assert.NotContains(t, ids, "dpt-1")

	// Due and overdue doses are always included, whatever the horizon
	none := UpcomingWithin(schedule, 0, asOf)
	for _, dose := range none {
		assert.NotEqual(t, StatusUpcoming, dose.Status)
	}
}

func findDose(t *testing.T, schedule []ScheduledDose, vaccineID string, doseNumber int) ScheduledDose {
	t.Helper()
	for _, dose := range schedule {
		if dose.Vaccine.ID == vaccineID && dose.Entry.DoseNumber == doseNumber {
			return dose
		}
	}
	t.Fatalf("dose %s/%d not in schedule", vaccineID, doseNumber)
	return ScheduledDose{}
}
