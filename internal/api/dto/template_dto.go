package dto

import (
	"KolBD/internal/model"
	"time"
)

type CreateTemplateDTO struct {
	Name        string                 `json:"name" validate:"required,min=1,max=100"`
	Category    model.TemplateCategory `json:"category" validate:"required,enum"`
	Content     string                 `json:"content" validate:"required,min=1,max=5000,template_vars"`
	Language    *string                `json:"language" validate:"omitempty,min=2,max=10"`
	AIGenerated *bool                  `json:"ai_generated"`
}

type UpdateTemplateDTO struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=100"`
	Category    *model.TemplateCategory `json:"category" validate:"omitempty,enum"`
	Content     *string                 `json:"content" validate:"omitempty,min=1,max=5000,template_vars"`
	Language    *string                 `json:"language" validate:"omitempty,min=2,max=10"`
	AIGenerated *bool                   `json:"ai_generated"`
}

type TemplateQueryDTO struct {
	PageQuery
	Search      string                  `form:"search" validate:"omitempty,max=100"`
	Category    *model.TemplateCategory `form:"category" validate:"omitempty,enum"`
	Language    string                  `form:"language" validate:"omitempty,max=10"`
	AIGenerated *bool                   `form:"ai_generated"`
}

type TemplateDTO struct {
	ID           uint64                 `json:"id"`
	Name         string                 `json:"name"`
	Category     model.TemplateCategory `json:"category"`
	Content      string                 `json:"content"`
	Language     string                 `json:"language"`
	AIGenerated  bool                   `json:"ai_generated"`
	UseCount     int                    `json:"use_count"`
	SuccessCount int                    `json:"success_count"`
	SuccessRate  float64                `json:"success_rate"`
	Variables    []string               `json:"variables"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type PreviewTemplateDTO struct {
	KOLID *uint64 `json:"kol_id"`
}

type TemplatePreviewDTO struct {
	OriginalContent string   `json:"original_content"`
	PreviewContent  string   `json:"preview_content"`
	Variables       []string `json:"variables"`
}
