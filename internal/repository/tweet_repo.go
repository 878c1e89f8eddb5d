package repository

import (
	"KolBD/internal/model"
	"context"

	"gorm.io/gorm"
)

type TweetRepo interface {
	ListTweets(ctx context.Context, kolID uint64, page Page) ([]*model.Tweet, int64, error)
	CreateTweet(ctx context.Context, tweet *model.Tweet) error
}

type TweetRepoImpl struct {
	db *gorm.DB
}

func NewTweetRepo(db *gorm.DB) TweetRepo {
	return &TweetRepoImpl{db: db}
}

// ListTweets 按发布时间倒序
func (s *TweetRepoImpl) ListTweets(ctx context.Context, kolID uint64, page Page) ([]*model.Tweet, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Tweet{}).Where("kol_id = ?", kolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tweets := make([]*model.Tweet, 0)
	err := query.Order("posted_at DESC").Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}

// CreateTweet tweet_id 全局唯一
func (s *TweetRepoImpl) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	return wrapErr(s.db.WithContext(ctx).Create(tweet).Error)
}
