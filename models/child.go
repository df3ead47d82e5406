package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Child struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ParentID uuid.UUID `gorm:"type:uuid;index;not null"`

	FullName    string    `gorm:"not null"`
	DateOfBirth time.Time `gorm:"not null"`
	Gender      string    `gorm:"type:varchar(10);not null"` // male, female, other
	BloodGroup  string    `gorm:"type:varchar(3)"`
	BirthWeight float64   `gorm:"type:decimal(4,2)"` // in kg
	BirthHeight float64   `gorm:"type:decimal(5,2)"` // in cm

	ProfilePictureURL string
	Allergies         string `gorm:"type:text"`
	MedicalNotes      string `gorm:"type:text"`

	VaccinationRecords []VaccinationRecord `gorm:"foreignKey:ChildID"`

	gorm.Model
}

func (ch *Child) BeforeCreate(tx *gorm.DB) (err error) {
	ch.ID = uuid.New()
	return
}
