package controllers

import (
	"errors"
	"net/http"
	"time"
	"vaxtracker-backend/config"
	"vaxtracker-backend/models"
	"vaxtracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateChildInput defines the expected JSON structure for adding a child
type CreateChildInput struct {
	FullName     string    `json:"fullName" binding:"required"`
	DateOfBirth  time.Time `json:"dateOfBirth" binding:"required"`
	Gender       string    `json:"gender" binding:"required,oneof=male female other"`
	BloodGroup   string    `json:"bloodGroup" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	BirthWeight  float64   `json:"birthWeight"`
	BirthHeight  float64   `json:"birthHeight"`
	Allergies    string    `json:"allergies"`
	MedicalNotes string    `json:"medicalNotes"`
}

// UpdateChildInput defines the expected JSON structure for updating a child
type UpdateChildInput struct {
	FullName     *string  `json:"fullName"`
	Gender       *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	BloodGroup   *string  `json:"bloodGroup" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	BirthWeight  *float64 `json:"birthWeight"`
	BirthHeight  *float64 `json:"birthHeight"`
	Allergies    *string  `json:"allergies"`
	MedicalNotes *string  `json:"medicalNotes"`
}

// CreateChild adds a child profile for the authenticated parent
func CreateChild(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var input CreateChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	child := models.Child{
		ParentID:     parentUUID,
		FullName:     input.FullName,
		DateOfBirth:  input.DateOfBirth,
		Gender:       input.Gender,
		BloodGroup:   input.BloodGroup,
		BirthWeight:  input.BirthWeight,
		BirthHeight:  input.BirthHeight,
		Allergies:    input.Allergies,
		MedicalNotes: input.MedicalNotes,
	}

	if err := config.DB.Create(&child).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create child profile")
		return
	}

	c.JSON(http.StatusCreated, child)
}

// GetChildren retrieves all children of the authenticated parent
func GetChildren(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var children []models.Child
	if err := config.DB.Where("parent_id = ?", parentUUID).Find(&children).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve children")
		return
	}

	c.JSON(http.StatusOK, children)
}

// GetChild retrieves one child of the authenticated parent
func GetChild(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	child, ok := parentChild(c, parentUUID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, child)
}

// UpdateChild updates a child profile. Date of birth is intentionally not
// updatable here; it anchors the whole vaccination timeline.
func UpdateChild(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	child, ok := parentChild(c, parentUUID)
	if !ok {
		return
	}

	var input UpdateChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.FullName != nil {
		child.FullName = *input.FullName
	}
	if input.Gender != nil {
		child.Gender = *input.Gender
	}
	if input.BloodGroup != nil {
		child.BloodGroup = *input.BloodGroup
	}
	if input.BirthWeight != nil {
		child.BirthWeight = *input.BirthWeight
	}
	if input.BirthHeight != nil {
		child.BirthHeight = *input.BirthHeight
	}
	if input.Allergies != nil {
		child.Allergies = *input.Allergies
	}
	if input.MedicalNotes != nil {
		child.MedicalNotes = *input.MedicalNotes
	}

	if err := config.DB.Save(child).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update child profile")
		return
	}

	c.JSON(http.StatusOK, child)
}

// DeleteChild removes a child profile
func DeleteChild(c *gin.Context) {
	parentUUID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	childID := c.Param("id")
	childUUID, err := uuid.Parse(childID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	result := config.DB.Where("parent_id = ? AND id = ?", parentUUID, childUUID).
		Delete(&models.Child{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete child profile")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Child not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Child profile deleted successfully"})
}

// currentUserUUID extracts the authenticated user's UUID, responding with an
// error itself when the context is broken.
func currentUserUUID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}

	return userUUID, true
}

// parentChild loads the :id child, enforcing that it belongs to the parent.
func parentChild(c *gin.Context, parentUUID uuid.UUID) (*models.Child, bool) {
	childID := c.Param("id")
	childUUID, err := uuid.Parse(childID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return nil, false
	}

	var child models.Child
	if err := config.DB.Where("parent_id = ? AND id = ?", parentUUID, childUUID).
		First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Child not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	return &child, true
}
