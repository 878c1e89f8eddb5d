package dto

import (
	"KolBD/internal/model"
	"time"
)

type RegisterDTO struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,strong_password"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileDTO struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}

type UserDTO struct {
	ID        uint64         `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Role      model.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	Avatar    *string        `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type AuthResultDTO struct {
	User      *UserDTO `json:"user"`
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int64    `json:"expires_in"`
}

// UserQueryDTO 管理端用户列表
type UserQueryDTO struct {
	PageQuery
	Search   string          `form:"search" validate:"omitempty,max=100"`
	Role     *model.UserRole `form:"role" validate:"omitempty,enum"`
	IsActive *bool           `form:"is_active"`
}

type AdminUpdateUserDTO struct {
	FullName *string         `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role     *model.UserRole `json:"role" validate:"omitempty,enum"`
	IsActive *bool           `json:"is_active"`
}
