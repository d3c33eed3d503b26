package dto

import "time"

// CreateDivisionRequest payload.
type CreateDivisionRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// UpdateDivisionRequest payload.
type UpdateDivisionRequest struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	IsActive *bool   `json:"is_active"`
}

// DivisionResponse payload.
type DivisionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
