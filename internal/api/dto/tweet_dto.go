package dto

import "time"

type CreateTweetDTO struct {
	TweetID        string    `json:"tweet_id" validate:"required,max=50"`
	Content        string    `json:"content" validate:"required,max=10000"`
	Likes          *int      `json:"likes" validate:"omitempty,min=0"`
	Retweets       *int      `json:"retweets" validate:"omitempty,min=0"`
	Replies        *int      `json:"replies" validate:"omitempty,min=0"`
	PostedAt       time.Time `json:"posted_at" validate:"required"`
	CryptoKeywords []string  `json:"crypto_keywords" validate:"omitempty,max=50,dive,max=50"`
	RelevanceScore *int      `json:"relevance_score" validate:"omitempty,min=0,max=100"`
}

type TweetDTO struct {
	ID              uint64    `json:"id"`
	KOLID           uint64    `json:"kol_id"`
	TweetID         string    `json:"tweet_id"`
	Content         string    `json:"content"`
	Likes           int       `json:"likes"`
	Retweets        int       `json:"retweets"`
	Replies         int       `json:"replies"`
	EngagementCount int       `json:"engagement_count"`
	PostedAt        time.Time `json:"posted_at"`
	CryptoKeywords  []string  `json:"crypto_keywords"`
	RelevanceScore  int       `json:"relevance_score"`
	CreatedAt       time.Time `json:"created_at"`
}
