package controllers

import (
	"errors"
	"net/http"
	"sort"
	"time"
	"vaxtracker-backend/config"
	"vaxtracker-backend/models"
	"vaxtracker-backend/services"
	"vaxtracker-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdatePreferencesInput defines the expected JSON structure for updating
// notification preferences
type UpdatePreferencesInput struct {
	SMS          *bool  `json:"sms"`
	Email        *bool  `json:"email"`
	WhatsApp     *bool  `json:"whatsapp"`
	ReminderDays *[]int `json:"reminderDays"`
}

// GetNotificationPreferences returns the parent's reminder settings
func GetNotificationPreferences(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var prefs models.NotificationPreference
	if err := config.DB.Where("parent_id = ?", parentUUID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Preferences not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdateNotificationPreferences updates the parent's reminder settings
func UpdateNotificationPreferences(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var input UpdatePreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ReminderDays != nil {
		for _, days := range *input.ReminderDays {
			if days <= 0 {
				utils.RespondWithError(c, http.StatusBadRequest, "Reminder days must be positive")
				return
			}
		}
	}

	var prefs models.NotificationPreference
	if err := config.DB.Where("parent_id = ?", parentUUID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Preferences not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.SMS != nil {
		prefs.SMS = *input.SMS
	}
	if input.Email != nil {
		prefs.Email = *input.Email
	}
	if input.WhatsApp != nil {
		prefs.WhatsApp = *input.WhatsApp
	}
	if input.ReminderDays != nil {
		days := append([]int(nil), *input.ReminderDays...)
		sort.Sort(sort.Reverse(sort.IntSlice(days)))
		prefs.ReminderDays = models.IntSlice(days)
	}

	if err := config.DB.Save(&prefs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// GetScheduledReminders previews the pending reminder events for all of the
// parent's children, computed on demand from the current schedules.
func GetScheduledReminders(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var parent models.User
	if err := config.DB.First(&parent, "id = ?", parentUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	var prefs models.NotificationPreference
	if err := config.DB.Where("parent_id = ?", parentUUID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Preferences not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var children []models.Child
	if err := config.DB.Where("parent_id = ?", parentUUID).Find(&children).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve children")
		return
	}

	now := time.Now()
	events := make([]services.ReminderEvent, 0)

	for i := range children {
		child := children[i]

		var records []models.VaccinationRecord
		if err := config.DB.Where("child_id = ?", child.ID).Find(&records).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vaccination records")
			return
		}

		schedule, err := services.GenerateSchedule(&child, records, catalog, now)
		if err != nil {
			// One broken profile should not empty the whole preview
			continue
		}

		events = append(events, services.ScheduleReminders(&child, &parent, schedule, &prefs, now)...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SendAt.Before(events[j].SendAt)
	})

	c.JSON(http.StatusOK, events)
}
