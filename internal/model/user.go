package model

import (
	"time"
)

type User struct {
	ID             uint64   `gorm:"primaryKey"`
	Email          string   `gorm:"type:varchar(255);not null;uniqueIndex:ix_users_email"`
	HashedPassword string   `gorm:"type:varchar(255);not null"`
	FullName       string   `gorm:"type:varchar(100);not null"`
	Role           UserRole `gorm:"type:varchar(20);not null"`
	IsActive       bool     `gorm:"not null"`
	Avatar         *string  `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
