// services/reminder_service.go
package services

import (
	"errors"
	"log"
	"os"
	"time"
	"vaxtracker-backend/models"
	"vaxtracker-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService runs the daily dispatch: it recomputes every parent's
// pending reminder events and sends the ones whose send time has arrived.
type ReminderService struct {
	db      *gorm.DB
	catalog *Catalog
	client  *twilio.RestClient
}

func NewReminderService(db *gorm.DB, catalog *Catalog) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db:      db,
		catalog: catalog,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders dispatches every reminder event that comes due within
// the next day, for every active parent.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var parents []models.User
	if err := s.db.Find(&parents, "role = ? AND is_active = ?", models.RoleParent, true).Error; err != nil {
		log.Printf("Failed to fetch parents: %v", err)
		return
	}

	for _, parent := range parents {
		s.ProcessParentReminders(&parent)
	}

	log.Println("Daily reminder processing completed")
}

// ProcessParentReminders recomputes the parent's reminder events and sends
// the ones due today that have not been dispatched before.
func (s *ReminderService) ProcessParentReminders(parent *models.User) {
	var prefs models.NotificationPreference
	if err := s.db.Where("parent_id = ?", parent.ID).First(&prefs).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Parent %s: failed to load preferences: %v", parent.ID, err)
		}
		return
	}

	var children []models.Child
	if err := s.db.Where("parent_id = ?", parent.ID).Find(&children).Error; err != nil {
		log.Printf("Parent %s: failed to load children: %v", parent.ID, err)
		return
	}

	now := time.Now()
	today := utils.BeginningOfDay(now)

	for _, child := range children {
		var records []models.VaccinationRecord
		if err := s.db.Where("child_id = ?", child.ID).Find(&records).Error; err != nil {
			log.Printf("Child %s: failed to load records: %v", child.ID, err)
			continue
		}

		schedule, err := GenerateSchedule(&child, records, s.catalog, now)
		if err != nil {
			log.Printf("Child %s: failed to generate schedule: %v", child.ID, err)
			continue
		}

		// Project from yesterday's midnight so events whose send time is
		// today's midnight are included, then cap at today.
		for _, event := range ScheduleReminders(&child, parent, schedule, &prefs, today.AddDate(0, 0, -1)) {
			if event.SendAt.After(today) {
				continue
			}
			s.dispatch(parent, event)
		}
	}
}

func (s *ReminderService) dispatch(parent *models.User, event ReminderEvent) {
	// The unique index on event_id keeps reruns idempotent
	var existing models.ReminderLog
	if err := s.db.Where("event_id = ?", event.ID).First(&existing).Error; err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check reminder log for %s: %v", event.ID, err)
		return
	}

	status := string(ReminderSent)
	errorMsg := ""

	switch event.Channel {
	case ChannelSMS, ChannelWhatsApp:
		if err := s.sendTwilio(parent.Phone, event); err != nil {
			log.Printf("Failed to send %s to %s: %v", event.Channel, parent.Phone, err)
			status = string(ReminderFailed)
			errorMsg = err.Error()
		}
	case ChannelEmail:
		// Email delivery is handled by an external provider; record the
		// handoff here.
		log.Printf("Email reminder for %s queued to %s", event.VaccineID, parent.Email)
	}

	reminderLog := models.ReminderLog{
		EventID:      event.ID,
		ChildID:      event.ChildID,
		ParentID:     parent.ID,
		VaccineID:    event.VaccineID,
		Channel:      string(event.Channel),
		Message:      event.Message,
		Status:       status,
		ErrorMessage: errorMsg,
		DueDate:      event.DueDate,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder %s: %v", event.ID, err)
	}
}

func (s *ReminderService) sendTwilio(phone string, event ReminderEvent) error {
	to := phone
	from := os.Getenv("TWILIO_PHONE_NUMBER")
	if event.Channel == ChannelWhatsApp {
		to = "whatsapp:" + phone
		from = "whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(event.Message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", phone)
	}
	return nil
}
