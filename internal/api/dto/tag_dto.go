package dto

import "time"

type CreateTagDTO struct {
	Name  string  `json:"name" validate:"required,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor6"`
}

type UpdateTagDTO struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor6"`
}

type TagDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	KOLCount  *int64    `json:"kol_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
