package dto

import (
	"KolBD/internal/model"
	"time"
)

type CreateContactDTO struct {
	KOLID          uint64             `json:"kol_id" validate:"required"`
	TemplateID     *uint64            `json:"template_id"`
	MessageContent string             `json:"message_content" validate:"required,max=10000"`
	ContactType    *model.ContactType `json:"contact_type" validate:"omitempty,enum"`
	SentAt         *time.Time         `json:"sent_at"`
	Notes          *string            `json:"notes" validate:"omitempty,max=5000"`
}

type UpdateContactDTO struct {
	Status          *model.ContactStatus `json:"status" validate:"omitempty,enum"`
	RepliedAt       *time.Time           `json:"replied_at"`
	ResponseContent *string              `json:"response_content" validate:"omitempty,max=10000"`
	Sentiment       *model.Sentiment     `json:"sentiment" validate:"omitempty,enum"`
	Notes           *string              `json:"notes" validate:"omitempty,max=5000"`
}

type ContactQueryDTO struct {
	PageQuery
	KOLID  *uint64              `form:"kol_id"`
	Status *model.ContactStatus `form:"status" validate:"omitempty,enum"`
}

type ContactKOLDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type ContactTemplateDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ContactDTO struct {
	ID              uint64              `json:"id"`
	KOLID           uint64              `json:"kol_id"`
	TemplateID      *uint64             `json:"template_id"`
	MessageContent  string              `json:"message_content"`
	ContactType     model.ContactType   `json:"contact_type"`
	Status          model.ContactStatus `json:"status"`
	SentAt          time.Time           `json:"sent_at"`
	RepliedAt       *time.Time          `json:"replied_at"`
	ResponseHours   *float64            `json:"response_hours"`
	ResponseContent *string             `json:"response_content"`
	Sentiment       *model.Sentiment    `json:"sentiment"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	KOL             *ContactKOLDTO      `json:"kol,omitempty"`
	Template        *ContactTemplateDTO `json:"template,omitempty"`
}
