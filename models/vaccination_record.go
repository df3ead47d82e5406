package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecordCompleted = "completed"
	RecordMissed    = "missed"
	RecordDelayed   = "delayed"
)

// VaccinationRecord is the fact that a child received a specific dose on a
// specific date. Records are immutable once created; amendments are handled
// by the doctor creating a new record.
type VaccinationRecord struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key"`
	ChildID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	DoctorID *uuid.UUID `gorm:"type:uuid;index"`

	VaccineID       string    `gorm:"type:varchar(40);not null"`
	DoseNumber      int       `gorm:"not null"`
	VaccinationDate time.Time `gorm:"not null"`

	BatchNumber         string
	Manufacturer        string
	SiteOfInjection     string
	Notes               string `gorm:"type:text"`
	SideEffectsReported string `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);default:'completed'"` // completed, missed, delayed

	gorm.Model
}

func (r *VaccinationRecord) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
