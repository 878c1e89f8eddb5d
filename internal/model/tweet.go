package model

import "time"

type Tweet struct {
	ID             uint64    `gorm:"primaryKey"`
	KOLID          uint64    `gorm:"column:kol_id;not null;index"`
	TweetID        string    `gorm:"type:varchar(50);not null;uniqueIndex:ix_tweets_tweet_id"`
	Content        string    `gorm:"type:text;not null"`
	Likes          int       `gorm:"not null"`
	Retweets       int       `gorm:"not null"`
	Replies        int       `gorm:"not null"`
	PostedAt       time.Time `gorm:"not null;index"`
	CryptoKeywords []string  `gorm:"type:json;serializer:json"`
	RelevanceScore int       `gorm:"not null"`
	CreatedAt      time.Time
}

func (Tweet) TableName() string {
	return "tweets"
}

// EngagementCount 点赞、转推、回复之和，读取时计算
func (t *Tweet) EngagementCount() int {
	return t.Likes + t.Retweets + t.Replies
}
