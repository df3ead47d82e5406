package controllers

import (
	"net/http"
	"strings"
	"time"
	"vaxtracker-backend/config"
	"vaxtracker-backend/models"
	"vaxtracker-backend/services"
	"vaxtracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordVaccinationInput defines the expected JSON structure for a
// doctor-recorded vaccination
type RecordVaccinationInput struct {
	ChildID             string    `json:"childId" binding:"required"`
	VaccineID           string    `json:"vaccineId" binding:"required"`
	DoseNumber          int       `json:"doseNumber" binding:"required,min=1"`
	VaccinationDate     time.Time `json:"vaccinationDate" binding:"required"`
	BatchNumber         string    `json:"batchNumber"`
	Manufacturer        string    `json:"manufacturer"`
	SiteOfInjection     string    `json:"siteOfInjection"`
	Notes               string    `json:"notes"`
	SideEffectsReported string    `json:"sideEffectsReported"`
}

// PatientSummary is a doctor's dashboard row: one child with the schedule
// rollup a doctor triages by.
type PatientSummary struct {
	Child            models.Child             `json:"child"`
	UpcomingVaccines []services.ScheduledDose `json:"upcomingVaccines"`
	OverdueCount     int                      `json:"overdueCount"`
}

// RecordVaccination records an administered dose for a child. Records are
// immutable; corrections are new records.
func RecordVaccination(c *gin.Context) {
	doctorUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var input RecordVaccinationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	childUUID, err := uuid.Parse(input.ChildID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	var child models.Child
	if err := config.DB.First(&child, "id = ?", childUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Child not found")
		return
	}

	vaccine := catalog.VaccineByID(input.VaccineID)
	if vaccine == nil || !vaccine.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown vaccine")
		return
	}

	if !doseInCatalog(input.VaccineID, input.DoseNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Dose number not in the vaccine's schedule")
		return
	}

	// Reject duplicates: one completed record per (child, vaccine, dose)
	var count int64
	config.DB.Model(&models.VaccinationRecord{}).
		Where("child_id = ? AND vaccine_id = ? AND dose_number = ? AND status = ?",
			childUUID, input.VaccineID, input.DoseNumber, models.RecordCompleted).
		Count(&count)
	if count > 0 {
		utils.RespondWithError(c, http.StatusConflict, "This dose is already recorded as completed")
		return
	}

	record := models.VaccinationRecord{
		ChildID:             childUUID,
		DoctorID:            &doctorUUID,
		VaccineID:           input.VaccineID,
		DoseNumber:          input.DoseNumber,
		VaccinationDate:     input.VaccinationDate,
		BatchNumber:         input.BatchNumber,
		Manufacturer:        input.Manufacturer,
		SiteOfInjection:     input.SiteOfInjection,
		Notes:               input.Notes,
		SideEffectsReported: input.SideEffectsReported,
		Status:              models.RecordCompleted,
	}

	if err := config.DB.Create(&record).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record vaccination")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetChildRecords lists a child's vaccination history
func GetChildRecords(c *gin.Context) {
	childID := c.Param("id")
	childUUID, err := uuid.Parse(childID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	var records []models.VaccinationRecord
	if err := config.DB.Where("child_id = ?", childUUID).
		Order("vaccination_date DESC").Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve records")
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetPatients returns the doctor's patient list with schedule rollups.
// ?q filters by name or blood group.
func GetPatients(c *gin.Context) {
	var children []models.Child
	if err := config.DB.Find(&children).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve patients")
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("q")))

	patients := make([]PatientSummary, 0, len(children))
	for i := range children {
		child := children[i]
		if query != "" && !matchesPatientQuery(&child, query) {
			continue
		}

		_, schedule, err := scheduleForChildID(child.ID)
		if err != nil {
			// A broken profile should not take down the whole list
			continue
		}

		patients = append(patients, PatientSummary{
			Child:            child,
			UpcomingVaccines: services.UpcomingWithin(schedule, 30, time.Now()),
			OverdueCount:     services.Stats(schedule).Overdue,
		})
	}

	c.JSON(http.StatusOK, patients)
}

// GetPatientSchedule returns the full timeline for one patient (doctor view)
func GetPatientSchedule(c *gin.Context) {
	childID := c.Param("id")
	childUUID, err := uuid.Parse(childID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	_, schedule, err := scheduleForChildID(childUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Patient not found")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func matchesPatientQuery(child *models.Child, query string) bool {
	return strings.Contains(strings.ToLower(child.FullName), query) ||
		strings.Contains(strings.ToLower(child.BloodGroup), query) ||
		strings.Contains(strings.ToLower(child.ID.String()), query)
}

func doseInCatalog(vaccineID string, doseNumber int) bool {
	for _, entry := range catalog.Entries {
		if entry.VaccineID == vaccineID && entry.DoseNumber == doseNumber {
			return true
		}
	}
	return false
}
