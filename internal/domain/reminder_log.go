package domain

import "time"

// ReminderStatus records the outcome of a reminder dispatch attempt.
type ReminderStatus string

const (
	ReminderStatusSent   ReminderStatus = "SENT"
	ReminderStatusFailed ReminderStatus = "FAILED"
)

// ReminderLog is the audit record for a single contract expiration reminder.
// One row per contract, threshold and calendar day.
type ReminderLog struct {
	ID            string
	ContractID    string
	ThresholdDays int
	Recipient     string
	Subject       string
	Status        ReminderStatus
	ErrorMessage  string
	SentOn        time.Time
	CreatedAt     time.Time
}
