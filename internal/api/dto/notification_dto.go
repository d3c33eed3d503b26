package dto

import (
	"time"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// NotificationResponse is one feed entry.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
}

// UnreadCountResponse carries the read/unread aggregate.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
