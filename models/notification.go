package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationPreference holds a parent's reminder settings. ReminderDays are
// the lead times, in days before a due date, at which reminders go out.
type NotificationPreference struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	ParentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	SMS      bool `gorm:"default:true"`
	Email    bool `gorm:"default:true"`
	WhatsApp bool `gorm:"default:false"`

	ReminderDays IntSlice `gorm:"type:jsonb;default:'[7,3,1]'"`

	gorm.Model
}

func (p *NotificationPreference) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}

// ReminderLog records one dispatch attempt for a reminder event. EventID is
// the deterministic event identifier, so re-running the scheduler never sends
// the same reminder twice.
type ReminderLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID  string    `gorm:"uniqueIndex;not null"`
	ChildID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ParentID uuid.UUID `gorm:"type:uuid;index;not null"`

	VaccineID string `gorm:"type:varchar(40);not null"`
	Channel   string `gorm:"type:varchar(20)"` // sms, email, whatsapp
	Message   string `gorm:"type:text"`

	Status       string `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string `gorm:"type:text"`

	DueDate time.Time
	SentAt  time.Time

	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}

// Custom JSONB type for reminder lead days
type IntSlice []int

func (s IntSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *IntSlice) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}
