package model

import "time"

// KOLHistory KOL 字段变更记录，OldValue/NewValue 为 JSON 文本
type KOLHistory struct {
	ID        uint64  `gorm:"primaryKey"`
	KOLID     uint64  `gorm:"column:kol_id;not null;index"`
	UserID    uint64  `gorm:"not null"`
	FieldName string  `gorm:"type:varchar(50);not null"`
	OldValue  *string `gorm:"type:text"`
	NewValue  *string `gorm:"type:text"`
	CreatedAt time.Time
}

func (KOLHistory) TableName() string {
	return "kol_histories"
}
