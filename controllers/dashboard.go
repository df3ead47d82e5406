package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"time"
	"vaxtracker-backend/config"
	"vaxtracker-backend/models"
	"vaxtracker-backend/services"
	"vaxtracker-backend/utils"

	"github.com/gin-gonic/gin"
)

type ChildOverview struct {
	Child       models.Child           `json:"child"`
	Age         string                 `json:"age"`
	Stats       services.ScheduleStats `json:"stats"`
	UrgentDoses []UrgentDose           `json:"urgentDoses"`
}

type UrgentDose struct {
	VaccineName string `json:"vaccineName"`
	Dose        string `json:"dose"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

type UpcomingReminder struct {
	ChildName   string `json:"childName"`
	VaccineName string `json:"vaccineName"`
	Channel     string `json:"channel"`
	When        string `json:"when"` // e.g. "Today", "Tomorrow", "3 days"

	daysUntil int
}

// GetDashboardOverview builds the parent dashboard: per-child schedule
// rollups, urgent doses, and the next few reminders.
func GetDashboardOverview(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var parent models.User
	if err := config.DB.First(&parent, "id = ?", parentUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	var children []models.Child
	if err := config.DB.Where("parent_id = ?", parentUUID).Find(&children).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve children")
		return
	}

	var prefs models.NotificationPreference
	hasPrefs := config.DB.Where("parent_id = ?", parentUUID).First(&prefs).Error == nil

	now := time.Now()
	overviews := make([]ChildOverview, 0, len(children))
	upcomingReminders := make([]UpcomingReminder, 0)

	for i := range children {
		child := children[i]

		var records []models.VaccinationRecord
		if err := config.DB.Where("child_id = ?", child.ID).Find(&records).Error; err != nil {
			continue
		}

		schedule, err := services.GenerateSchedule(&child, records, catalog, now)
		if err != nil {
			continue
		}

		urgent := make([]UrgentDose, 0)
		for _, dose := range schedule {
			if !dose.IsUrgent {
				continue
			}
			urgent = append(urgent, UrgentDose{
				VaccineName: dose.Vaccine.Name,
				Dose:        dose.Entry.DoseDescription,
				DueDate:     dose.DueDate.Format("02 Jan 2006"),
				Status:      string(dose.Status),
			})
		}

		overviews = append(overviews, ChildOverview{
			Child:       child,
			Age:         utils.FormatAge(child.DateOfBirth, now),
			Stats:       services.Stats(schedule),
			UrgentDoses: urgent,
		})

		if hasPrefs {
			for _, event := range services.ScheduleReminders(&child, &parent, schedule, &prefs, now) {
				daysUntil := utils.DaysBetween(now, event.SendAt)
				if daysUntil > 6 {
					continue
				}
				vaccineName := event.VaccineID
				if vaccine := catalog.VaccineByID(event.VaccineID); vaccine != nil {
					vaccineName = vaccine.Name
				}
				upcomingReminders = append(upcomingReminders, UpcomingReminder{
					ChildName:   child.FullName,
					VaccineName: vaccineName,
					Channel:     string(event.Channel),
					When:        daysLabel(daysUntil),
					daysUntil:   daysUntil,
				})
			}
		}
	}

	sort.SliceStable(upcomingReminders, func(i, j int) bool {
		return upcomingReminders[i].daysUntil < upcomingReminders[j].daysUntil
	})
	if len(upcomingReminders) > 7 {
		upcomingReminders = upcomingReminders[:7]
	}

	c.JSON(http.StatusOK, gin.H{
		"children":          overviews,
		"totalChildren":     len(overviews),
		"upcomingReminders": upcomingReminders,
	})
}

func daysLabel(daysUntil int) string {
	switch daysUntil {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days", daysUntil)
	}
}
