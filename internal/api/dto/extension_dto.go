package dto

import "time"

type ActivateTokenDTO struct {
	Hours *int `json:"hours" validate:"omitempty,min=1,max=8760"`
}

type ExtensionTokenDTO struct {
	Token     string     `json:"token"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsExpired bool       `json:"is_expired"`
	Hours     int        `json:"hours,omitempty"`
}
