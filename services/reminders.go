// services/reminders.go
package services

import (
	"fmt"
	"log"
	"time"
	"vaxtracker-backend/models"
	"vaxtracker-backend/utils"

	"github.com/google/uuid"
)

// ReminderStatus tracks delivery of a reminder event. The dispatch side owns
// transitions out of pending; this package only ever creates pending events.
type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
	ReminderFailed  ReminderStatus = "failed"
)

// ReminderEvent is one future notification to a parent about one dose. The ID
// is deterministic per (child, vaccine, dose, channel, lead days), so
// re-running the scheduler yields the same events rather than duplicates.
type ReminderEvent struct {
	ID        string         `json:"id"`
	ChildID   uuid.UUID      `json:"childId"`
	ParentID  uuid.UUID      `json:"parentId"`
	VaccineID string         `json:"vaccineId"`
	Channel   Channel        `json:"channel"`
	SendAt    time.Time      `json:"scheduledDate"`
	DueDate   time.Time      `json:"dueDate"`
	Status    ReminderStatus `json:"status"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ScheduleReminders projects a child's schedule into the reminder events the
// parent should receive: for every due or upcoming dose, one event per enabled
// channel per configured lead day, skipping send times already in the past.
// Completed doses need no reminder; overdue doses had theirs already.
//
// The projection is pure apart from logging: it mutates neither the schedule
// nor the records behind it, and empty preferences simply yield no events.
func ScheduleReminders(child *models.Child, parent *models.User, schedule []ScheduledDose, prefs *models.NotificationPreference, asOf time.Time) []ReminderEvent {
	channels := enabledChannels(prefs)
	if len(channels) == 0 || len(prefs.ReminderDays) == 0 {
		return []ReminderEvent{}
	}

	events := make([]ReminderEvent, 0)

	for _, dose := range schedule {
		if dose.Status != StatusDue && dose.Status != StatusUpcoming {
			continue
		}

		for _, leadDays := range prefs.ReminderDays {
			sendAt := dose.DueDate.AddDate(0, 0, -leadDays)
			if !sendAt.After(asOf) {
				continue
			}

			for _, channel := range channels {
				message, err := Render(TemplateForChannel(channel), reminderVariables(child, parent, dose, asOf))
				if err != nil {
					// Skip the one broken event, keep the batch going.
					log.Printf("Skipping reminder for child %s vaccine %s: %v", child.ID, dose.Vaccine.ID, err)
					continue
				}

				events = append(events, ReminderEvent{
					ID:        ReminderEventID(child.ID, dose.Vaccine.ID, dose.Entry.DoseNumber, channel, leadDays),
					ChildID:   child.ID,
					ParentID:  child.ParentID,
					VaccineID: dose.Vaccine.ID,
					Channel:   channel,
					SendAt:    sendAt,
					DueDate:   dose.DueDate,
					Status:    ReminderPending,
					Message:   message,
					CreatedAt: asOf,
				})
			}
		}
	}

	return events
}

// ReminderEventID builds the deterministic identifier for one reminder tuple.
func ReminderEventID(childID uuid.UUID, vaccineID string, doseNumber int, channel Channel, leadDays int) string {
	return fmt.Sprintf("%s-%s-%d-%s-%d", childID, vaccineID, doseNumber, channel, leadDays)
}

func enabledChannels(prefs *models.NotificationPreference) []Channel {
	channels := make([]Channel, 0, 3)
	if prefs.SMS {
		channels = append(channels, ChannelSMS)
	}
	if prefs.Email {
		channels = append(channels, ChannelEmail)
	}
	if prefs.WhatsApp {
		channels = append(channels, ChannelWhatsApp)
	}
	return channels
}

func reminderVariables(child *models.Child, parent *models.User, dose ScheduledDose, asOf time.Time) map[string]string {
	parentName := "Parent"
	if parent != nil && parent.FullName != "" {
		parentName = parent.FullName
	}

	return map[string]string{
		"parentName":        parentName,
		"childName":         child.FullName,
		"vaccineName":       dose.Vaccine.Name,
		"dueDate":           dose.DueDate.Format("02 Jan 2006"),
		"childAge":          utils.FormatAge(child.DateOfBirth, asOf),
		"vaccineImportance": dose.Vaccine.ImportanceInfo,
	}
}
