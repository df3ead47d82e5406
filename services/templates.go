// services/templates.go
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

var (
	ErrTemplateNotFound = errors.New("notification template not found")
	ErrMissingVariable  = errors.New("missing template variable")
)

// NotificationTemplate is a channel-specific message with {name} placeholders.
// Variables lists every placeholder the template declares; Render requires all
// of them to be supplied.
type NotificationTemplate struct {
	ID        string
	Channel   Channel
	Subject   string
	Content   string
	Variables []string
}

const (
	TemplateReminderSMS      = "vaccine-reminder-sms"
	TemplateReminderEmail    = "vaccine-reminder-email"
	TemplateReminderWhatsApp = "vaccine-reminder-whatsapp"
)

var notificationTemplates = map[string]NotificationTemplate{
	TemplateReminderSMS: {
		ID:      TemplateReminderSMS,
		Channel: ChannelSMS,
		Content: "Hi {parentName}! {childName} has {vaccineName} vaccination due on {dueDate}. " +
			"Please schedule an appointment. - VaxTracker",
		Variables: []string{"parentName", "childName", "vaccineName", "dueDate"},
	},
	TemplateReminderEmail: {
		ID:      TemplateReminderEmail,
		Channel: ChannelEmail,
		Subject: "Vaccination Reminder for {childName}",
		Content: `Dear {parentName},

This is a friendly reminder that {childName} has the following vaccination due:

Vaccine: {vaccineName}
Due Date: {dueDate}
Age: {childAge}

Please schedule an appointment with your healthcare provider to ensure {childName} stays protected.

Why this vaccine is important:
{vaccineImportance}

Best regards,
VaxTracker Team`,
		Variables: []string{"parentName", "childName", "vaccineName", "dueDate", "childAge", "vaccineImportance"},
	},
	TemplateReminderWhatsApp: {
		ID:      TemplateReminderWhatsApp,
		Channel: ChannelWhatsApp,
		Content: `*Vaccination Reminder*

Hi {parentName}!

{childName} has *{vaccineName}* vaccination due on *{dueDate}*.

Please schedule an appointment to keep {childName} protected!

- VaxTracker`,
		Variables: []string{"parentName", "childName", "vaccineName", "dueDate"},
	},
}

// TemplateForChannel maps a channel to its reminder template id.
func TemplateForChannel(channel Channel) string {
	switch channel {
	case ChannelEmail:
		return TemplateReminderEmail
	case ChannelWhatsApp:
		return TemplateReminderWhatsApp
	default:
		return TemplateReminderSMS
	}
}

// Render substitutes every declared {variable} in the template with the
// caller's values. Unknown template ids fail with ErrTemplateNotFound. A
// declared variable absent from vars fails with ErrMissingVariable rather
// than leaving a silent {placeholder} in an outgoing message. Tokens in the
// body that the template never declared are left verbatim.
func Render(templateID string, vars map[string]string) (string, error) {
	template, ok := notificationTemplates[templateID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	content := template.Content
	for _, name := range template.Variables {
		value, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("%w: %s requires {%s}", ErrMissingVariable, templateID, name)
		}
		content = strings.ReplaceAll(content, "{"+name+"}", value)
	}

	return content, nil
}
