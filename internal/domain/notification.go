package domain

import "time"

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "INFO"
	NotificationTypeWarning NotificationType = "WARNING"
	NotificationTypeSuccess NotificationType = "SUCCESS"
	NotificationTypeError   NotificationType = "ERROR"
)

// Notification is an in-app message for a single user. Records are only ever
// mutated by setting ReadAt; they are never hard-deleted.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// IsRead reports whether the notification has been acknowledged.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
