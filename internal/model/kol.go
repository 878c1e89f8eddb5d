package model

import "time"

type KOL struct {
	ID              uint64           `gorm:"primaryKey"`
	UserID          uint64           `gorm:"not null;index"`
	TwitterID       *string          `gorm:"type:varchar(50);uniqueIndex:ix_kols_twitter_id"`
	Username        string           `gorm:"type:varchar(50);not null;index"`
	DisplayName     string           `gorm:"type:varchar(100);not null"`
	Bio             *string          `gorm:"type:text"`
	FollowerCount   int              `gorm:"not null"`
	FollowingCount  int              `gorm:"not null"`
	Verified        bool             `gorm:"not null"`
	ProfileImgURL   *string          `gorm:"column:profile_img_url;type:varchar(500)"`
	Language        *string          `gorm:"type:varchar(10)"`
	LastTweetDate   *time.Time       `gorm:"column:last_tweet_date"`
	AccountCreated  *time.Time       `gorm:"column:account_created"`
	QualityScore    int              `gorm:"not null;index"`
	ContentCategory *ContentCategory `gorm:"type:varchar(50);index"`
	Status          KOLStatus        `gorm:"type:varchar(30);not null;index"`
	CustomNotes     *string          `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// 由仓储层按 kol_tags 手动装载
	Tags []Tag `gorm:"-"`
}

func (KOL) TableName() string {
	return "kols"
}

// QualityLevel 质量分对应的中文等级
type QualityLevel string

const (
	QualityExcellent QualityLevel = "高质量"
	QualityGreat     QualityLevel = "优秀"
	QualityGood      QualityLevel = "良好"
	QualityAverage   QualityLevel = "一般"
	QualityPoor      QualityLevel = "较差"
)

// QualityRange 闭区间 [Min, Max]
type QualityRange struct {
	Level QualityLevel
	Min   int
	Max   int
}

var QualityRanges = []QualityRange{
	{QualityExcellent, 85, 100},
	{QualityGreat, 80, 84},
	{QualityGood, 75, 79},
	{QualityAverage, 65, 74},
	{QualityPoor, 0, 64},
}

func QualityLevelOf(score int) QualityLevel {
	for _, r := range QualityRanges {
		if score >= r.Min && score <= r.Max {
			return r.Level
		}
	}
	return QualityPoor
}

func QualityRangeOf(level QualityLevel) (QualityRange, bool) {
	for _, r := range QualityRanges {
		if r.Level == level {
			return r, true
		}
	}
	return QualityRange{}, false
}
