package model

import (
	"math"
	"time"
)

type Template struct {
	ID           uint64           `gorm:"primaryKey"`
	UserID       uint64           `gorm:"not null;index"`
	Name         string           `gorm:"type:varchar(100);not null"`
	Category     TemplateCategory `gorm:"type:varchar(30);not null;index"`
	Content      string           `gorm:"type:text;not null"`
	Language     string           `gorm:"type:varchar(10);not null"`
	AIGenerated  bool             `gorm:"column:ai_generated;not null"`
	UseCount     int              `gorm:"not null"`
	SuccessCount int              `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Template) TableName() string {
	return "templates"
}

// SuccessRate 回复率百分比，保留两位小数；未使用过时为 0
func (t *Template) SuccessRate() float64 {
	if t.UseCount == 0 {
		return 0
	}
	return math.Round(float64(t.SuccessCount)/float64(t.UseCount)*100*100) / 100
}
