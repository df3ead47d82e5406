package services

import (
	"strings"
	"testing"
	"time"
	"vaxtracker-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParent() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "john@example.com",
		FullName: "John Doe",
		Role:     models.RoleParent,
		Phone:    "+919876543210",
	}
}

func testPrefs(sms, email, whatsapp bool, reminderDays ...int) *models.NotificationPreference {
	return &models.NotificationPreference{
		ID:           uuid.New(),
		SMS:          sms,
		Email:        email,
		WhatsApp:     whatsapp,
		ReminderDays: models.IntSlice(reminderDays),
	}
}

// scheduleDueIn builds a one-dose schedule whose due date is daysAhead days
// after asOf.
func scheduleDueIn(t *testing.T, child *models.Child, asOf time.Time, daysAhead int) []ScheduledDose {
	t.Helper()

	catalog := &Catalog{
		Vaccines: []models.Vaccine{
			{ID: "dpt", Name: "Diphtheria, Pertussis, Tetanus", ShortName: "DPT", VaccineType: "inactivated", IsMandatory: true, IsActive: true},
		},
		Entries: []models.VaccineScheduleEntry{
			{ID: "dpt-1", VaccineID: "dpt", DoseNumber: 1, RecommendedAgeDays: 42, AgeRangeStartDays: 35, AgeRangeEndDays: 56, DoseDescription: "First dose"},
		},
	}
	require.NoError(t, catalog.Validate())

	child.DateOfBirth = asOf.AddDate(0, 0, daysAhead-42)

	schedule, err := GenerateSchedule(child, nil, catalog, asOf)
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	return schedule
}

func TestScheduleRemindersOnePerLeadDay(t *testing.T) {
	asOf := date(2024, 2, 1)
	child := testChild(date(2024, 1, 1))
	parent := testParent()

	// Dose due in 10 days, SMS only, lead days 7/3/1: exactly three events
	schedule := scheduleDueIn(t, child, asOf, 10)
	events := ScheduleReminders(child, parent, schedule, testPrefs(true, false, false, 7, 3, 1), asOf)

	require.Len(t, events, 3)
	for _, event := range events {
		assert.Equal(t, ChannelSMS, event.Channel)
		assert.True(t, event.SendAt.After(asOf), "reminder scheduled in the past: %s", event.SendAt)
		assert.Equal(t, ReminderPending, event.Status)
		assert.Equal(t, schedule[0].DueDate, event.DueDate)
	}
}

func TestScheduleRemindersSkipsPastSendTimes(t *testing.T) {
	asOf := date(2024, 2, 1)
	child := testChild(date(2024, 1, 1))

	// Due in 2 days: the 7- and 3-day lead times are already in the past
	schedule := scheduleDueIn(t, child, asOf, 2)
	events := ScheduleReminders(child, testParent(), schedule, testPrefs(true, false, false, 7, 3, 1), asOf)

	require.Len(t, events, 1)
	assert.Equal(t, schedule[0].DueDate.AddDate(0, 0, -1), events[0].SendAt)
}

func TestScheduleRemindersMultipliesChannels(t *testing.T) {
	asOf := date(2024, 2, 1)
	child := testChild(date(2024, 1, 1))

	schedule := scheduleDueIn(t, child, asOf, 10)
	events := ScheduleReminders(child, testParent(), schedule, testPrefs(true, true, true, 7, 3), asOf)

	// 2 lead days x 3 channels
	require.Len(t, events, 6)

	channels := make(map[Channel]int)
	for _, event := range events {
		channels[event.Channel]++
	}
	assert.Equal(t, map[Channel]int{ChannelSMS: 2, ChannelEmail: 2, ChannelWhatsApp: 2}, channels)
}

func TestScheduleRemindersEmptyPreferences(t *testing.T) {
	asOf := date(2024, 2, 1)
	child := testChild(date(2024, 1, 1))
	schedule := scheduleDueIn(t, child, asOf, 10)

	assert.Empty(t, ScheduleReminders(child, testParent(), schedule, testPrefs(false, false, false, 7, 3, 1), asOf))
	assert.Empty(t, ScheduleReminders(child, testParent(), schedule, testPrefs(true, true, true), asOf))
}

func TestScheduleRemindersSkipsCompletedAndOverdue(t *testing.T) {
	asOf := date(2024, 6, 1)
	child := testChild(date(2024, 1, 1))

	schedule, err := GenerateSchedule(child, []models.VaccinationRecord{
		{ID: uuid.New(), ChildID: child.ID, VaccineID: "bcg", DoseNumber: 1, Status: models.RecordCompleted},
	}, DefaultCatalog(), asOf)
	require.NoError(t, err)

	events := ScheduleReminders(child, testParent(), schedule, testPrefs(true, false, false, 7, 3, 1), asOf)

	for _, event := range events {
		assert.NotEqual(t, "bcg", event.VaccineID, "completed dose must not produce reminders")
	}
	// At day ~152 the early doses are overdue; none of them may re-remind
	for _, event := range events {
		assert.True(t, event.SendAt.After(asOf))
	}
}

func TestScheduleRemindersDeterministicIDs(t *testing.T) {
	asOf := date(2024, 2, 1)
	child := testChild(date(2024, 1, 1))
	parent := testParent()
	prefs := testPrefs(true, true, false, 7, 3, 1)

	schedule := scheduleDueIn(t, child, asOf, 10)

	first := ScheduleReminders(child, parent, schedule, prefs, asOf)
	second := ScheduleReminders(child, parent, schedule, prefs, asOf)

	require.Equal(t, len(first), len(second))
	seen := make(map[string]bool)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.False(t, seen[first[i].ID], "duplicate event id %s", first[i].ID)
		seen[first[i].ID] = true
	}
}

func TestScheduleRemindersRendersMessageEagerly(t *testing.T) {
	asOf := date(2024, 2, 1)
	child := testChild(date(2024, 1, 1))
	parent := testParent()

	schedule := scheduleDueIn(t, child, asOf, 10)
	events := ScheduleReminders(child, parent, schedule, testPrefs(true, false, false, 7), asOf)

	require.Len(t, events, 1)
	message := events[0].Message
	assert.Contains(t, message, "Emma Doe")
	assert.Contains(t, message, "John Doe")
	assert.Contains(t, message, "Diphtheria, Pertussis, Tetanus")
	assert.NotContains(t, message, "{", "unresolved placeholder in %q", message)
}

func TestReminderEventIDFormat(t *testing.T) {
	childID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	id := ReminderEventID(childID, "dpt", 2, ChannelWhatsApp, 3)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555-dpt-2-whatsapp-3", id)

	assert.True(t, strings.HasPrefix(id, childID.String()))
}
