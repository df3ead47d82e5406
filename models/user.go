package models

import (
	"time"
	"vaxtracker-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleParent = "parent"
	RoleDoctor = "doctor"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	FullName string    `gorm:"not null"`
	Phone    string

	Role string `gorm:"type:varchar(20);not null"` // 'parent' or 'doctor'

	// Doctor-only fields
	LicenseNumber  string
	Specialization string
	HospitalClinic string
	IsVerified     bool `gorm:"default:false"`

	Children []Child `gorm:"foreignKey:ParentID"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
