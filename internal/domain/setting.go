package domain

import "time"

// Setting is a persisted key-value configuration entry tunable at runtime
// without a redeploy. Reads always resolve through a caller-supplied default.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Settings keys consumed by the core services.
const (
	SettingTicketCutoffTime     = "ticket_cutoff_time"
	SettingReminderSendTime     = "reminder_send_time"
	SettingReminderThresholds   = "contract_reminder_thresholds"
	SettingReminderEmailSubject = "contract_reminder_email_subject"
	SettingReminderEmailBody    = "contract_reminder_email_body"
	SettingReminderRecipients   = "contract_reminder_recipients"
	SettingReminderReplyTo      = "contract_reminder_reply_to"
)
