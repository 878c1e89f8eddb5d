package model

import "time"

const DefaultTagColor = "#1890ff"

type Tag struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uq_user_tag_name,priority:1"`
	Name      string `gorm:"type:varchar(50);not null;uniqueIndex:uq_user_tag_name,priority:2"`
	Color     string `gorm:"type:varchar(7);not null"`
	CreatedAt time.Time
}

func (Tag) TableName() string {
	return "tags"
}

// KOLTag kols 与 tags 的多对多关联
type KOLTag struct {
	KOLID     uint64 `gorm:"column:kol_id;primaryKey"`
	TagID     uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (KOLTag) TableName() string {
	return "kol_tags"
}
