package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"vaxtracker-backend/config"
	"vaxtracker-backend/models"
	"vaxtracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=parent doctor"`
	Phone    string `json:"phone"`

	// Doctor-only fields
	LicenseNumber  string `json:"licenseNumber"`
	Specialization string `json:"specialization"`
	HospitalClinic string `json:"hospitalClinic"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a parent or doctor account
func Register(c *gin.Context) {
	var input RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if input.Role == models.RoleDoctor && input.LicenseNumber == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "License number required for doctors")
		return
	}

	// Check if email already exists
	var existingUser models.User
	result := config.DB.Where("email = ?", strings.ToLower(input.Email)).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Email:          strings.ToLower(input.Email),
		Password:       input.Password, // hashed in BeforeCreate
		FullName:       input.FullName,
		Role:           input.Role,
		Phone:          input.Phone,
		LicenseNumber:  input.LicenseNumber,
		Specialization: input.Specialization,
		HospitalClinic: input.HospitalClinic,
		IsActive:       true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// Parents get default notification preferences on signup
	if user.Role == models.RoleParent {
		prefs := models.NotificationPreference{
			ParentID:     user.ID,
			SMS:          true,
			Email:        true,
			WhatsApp:     false,
			ReminderDays: models.IntSlice{7, 3, 1},
		}
		if err := config.DB.Create(&prefs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create notification preferences")
			return
		}
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  sanitizeUser(&user),
	})
}

// Login authenticates by email and password
func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	config.DB.Model(&user).Update("last_login", now)

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  sanitizeUser(&user),
	})
}

// Me returns the authenticated user's profile
func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, sanitizeUser(&user))
}

func sanitizeUser(user *models.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"fullName":       user.FullName,
		"role":           user.Role,
		"phone":          user.Phone,
		"licenseNumber":  user.LicenseNumber,
		"specialization": user.Specialization,
		"hospitalClinic": user.HospitalClinic,
		"isVerified":     user.IsVerified,
	}
}
