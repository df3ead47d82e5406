package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	"vaxtracker-backend/config"
	"vaxtracker-backend/models"
	"vaxtracker-backend/services"
	"vaxtracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// catalog is the immunization calendar loaded and validated at startup.
var catalog *services.Catalog

// SetCatalog injects the validated calendar; called once from main.
func SetCatalog(cat *services.Catalog) {
	catalog = cat
}

// GetChildSchedule returns the full computed vaccination timeline for a child
func GetChildSchedule(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	child, ok := parentChild(c, parentUUID)
	if !ok {
		return
	}

	schedule, ok := computeSchedule(c, child)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// GetChildScheduleStats returns the per-status dose counts for a child
func GetChildScheduleStats(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	child, ok := parentChild(c, parentUUID)
	if !ok {
		return
	}

	schedule, ok := computeSchedule(c, child)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, services.Stats(schedule))
}

// GetChildUpcomingVaccines returns due, overdue, and soon-upcoming doses.
// ?days controls the upcoming horizon (default 30).
func GetChildUpcomingVaccines(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	child, ok := parentChild(c, parentUUID)
	if !ok {
		return
	}

	daysAhead := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		daysAhead = parsed
	}

	schedule, ok := computeSchedule(c, child)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, services.UpcomingWithin(schedule, daysAhead, time.Now()))
}

// GetVaccines returns the vaccine catalog for timeline rendering
func GetVaccines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"vaccines": catalog.Vaccines,
		"schedule": catalog.Entries,
	})
}

// computeSchedule loads a child's records and derives the schedule, handling
// error responses itself.
func computeSchedule(c *gin.Context, child *models.Child) ([]services.ScheduledDose, bool) {
	var records []models.VaccinationRecord
	if err := config.DB.Where("child_id = ?", child.ID).Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vaccination records")
		return nil, false
	}

	schedule, err := services.GenerateSchedule(child, records, catalog, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrMissingBirthDate) {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "Child has no valid date of birth")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute schedule")
		}
		return nil, false
	}

	return schedule, true
}

// scheduleForChildID is the doctor-side variant of computeSchedule: it loads
// any child by id without the parent ownership check.
func scheduleForChildID(childUUID uuid.UUID) (*models.Child, []services.ScheduledDose, error) {
	var child models.Child
	if err := config.DB.First(&child, "id = ?", childUUID).Error; err != nil {
		return nil, nil, err
	}

	var records []models.VaccinationRecord
	if err := config.DB.Where("child_id = ?", child.ID).Find(&records).Error; err != nil {
		return nil, nil, err
	}

	schedule, err := services.GenerateSchedule(&child, records, catalog, time.Now())
	if err != nil {
		return nil, nil, err
	}

	return &child, schedule, nil
}
