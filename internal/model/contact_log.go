package model

import "time"

type ContactLog struct {
	ID              uint64        `gorm:"primaryKey"`
	KOLID           uint64        `gorm:"column:kol_id;not null;index"`
	TemplateID      *uint64       `gorm:"column:template_id"`
	UserID          uint64        `gorm:"not null;index"`
	MessageContent  string        `gorm:"type:text;not null"`
	ContactType     ContactType   `gorm:"type:varchar(20);not null"`
	Status          ContactStatus `gorm:"type:varchar(20);not null"`
	SentAt          time.Time     `gorm:"not null;index"`
	RepliedAt       *time.Time
	ResponseContent *string    `gorm:"type:text"`
	Sentiment       *Sentiment `gorm:"type:varchar(20)"`
	Notes           *string    `gorm:"type:text"`
	CreatedAt       time.Time

	KOL      *KOL      `gorm:"foreignKey:KOLID"`
	Template *Template `gorm:"foreignKey:TemplateID"`
}

func (ContactLog) TableName() string {
	return "contact_logs"
}

// ResponseTime 发送到回复的间隔，未回复时 ok 为 false
func (c *ContactLog) ResponseTime() (time.Duration, bool) {
	if c.RepliedAt == nil {
		return 0, false
	}
	return c.RepliedAt.Sub(c.SentAt), true
}
