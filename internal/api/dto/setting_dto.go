package dto

import "time"

// SettingResponse payload.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingRequest payload.
type UpdateSettingRequest struct {
	Value string `json:"value"`
}
