package domain

import "time"

// Division represents an organizational unit that owns contracts. Code is a
// short unique slug embedded in assigned ticket numbers.
type Division struct {
	ID        string
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
