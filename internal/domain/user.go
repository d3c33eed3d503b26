package domain

import "time"

// UserRole enumerates application roles.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleLegal  UserRole = "LEGAL"
	UserRoleViewer UserRole = "VIEWER"
)

// User is the domain model for application operators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	DivisionID   *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
