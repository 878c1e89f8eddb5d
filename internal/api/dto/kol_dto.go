package dto

import (
	"KolBD/internal/model"
	"time"

	"github.com/goccy/go-json"
)

type CreateKOLDTO struct {
	Username        string                 `json:"username" validate:"required,twitter_username"`
	DisplayName     string                 `json:"display_name" validate:"required,min=1,max=100"`
	TwitterID       *string                `json:"twitter_id" validate:"omitempty,max=50"`
	Bio             *string                `json:"bio" validate:"omitempty,max=1000"`
	FollowerCount   *int                   `json:"follower_count" validate:"omitempty,min=0"`
	FollowingCount  *int                   `json:"following_count" validate:"omitempty,min=0"`
	Verified        *bool                  `json:"verified"`
	ProfileImgURL   *string                `json:"profile_img_url" validate:"omitempty,url,max=500"`
	Language        *string                `json:"language" validate:"omitempty,max=10"`
	LastTweetDate   *time.Time             `json:"last_tweet_date"`
	AccountCreated  *time.Time             `json:"account_created"`
	QualityScore    *int                   `json:"quality_score" validate:"omitempty,min=0,max=100"`
	ContentCategory *model.ContentCategory `json:"content_category" validate:"omitempty,enum"`
	Status          *model.KOLStatus       `json:"status" validate:"omitempty,enum"`
	CustomNotes     *string                `json:"custom_notes" validate:"omitempty,max=5000"`
}

// UpdateKOLDTO 仅更新非 nil 字段
type UpdateKOLDTO struct {
	Username        *string                `json:"username" validate:"omitempty,twitter_username"`
	DisplayName     *string                `json:"display_name" validate:"omitempty,min=1,max=100"`
	TwitterID       *string                `json:"twitter_id" validate:"omitempty,max=50"`
	Bio             *string                `json:"bio" validate:"omitempty,max=1000"`
	FollowerCount   *int                   `json:"follower_count" validate:"omitempty,min=0"`
	FollowingCount  *int                   `json:"following_count" validate:"omitempty,min=0"`
	Verified        *bool                  `json:"verified"`
	ProfileImgURL   *string                `json:"profile_img_url" validate:"omitempty,url,max=500"`
	Language        *string                `json:"language" validate:"omitempty,max=10"`
	LastTweetDate   *time.Time             `json:"last_tweet_date"`
	AccountCreated  *time.Time             `json:"account_created"`
	QualityScore    *int                   `json:"quality_score" validate:"omitempty,min=0,max=100"`
	ContentCategory *model.ContentCategory `json:"content_category" validate:"omitempty,enum"`
	Status          *model.KOLStatus       `json:"status" validate:"omitempty,enum"`
	CustomNotes     *string                `json:"custom_notes" validate:"omitempty,max=5000"`
}

type BatchImportDTO struct {
	Inputs []string `json:"inputs" validate:"required,min=1,max=100,dive,required,max=200"`
}

type BatchImportResultDTO struct {
	Success   int       `json:"success"`
	Failed    int       `json:"failed"`
	Duplicate int       `json:"duplicate"`
	Errors    []string  `json:"errors"`
	Imported  []*KOLDTO `json:"imported"`
}

type KOLQueryDTO struct {
	PageQuery
	Search           string                 `form:"search" validate:"omitempty,max=100"`
	Status           *model.KOLStatus       `form:"status" validate:"omitempty,enum"`
	ContentCategory  *model.ContentCategory `form:"content_category" validate:"omitempty,enum"`
	QualityLevels    string                 `form:"quality_levels"`
	MinQualityScore  *int                   `form:"min_quality_score" validate:"omitempty,min=0,max=100"`
	MaxQualityScore  *int                   `form:"max_quality_score" validate:"omitempty,min=0,max=100"`
	MinFollowerCount *int                   `form:"min_follower_count" validate:"omitempty,min=0"`
	MaxFollowerCount *int                   `form:"max_follower_count" validate:"omitempty,min=0"`
	Verified         *bool                  `form:"verified"`
	TagID            *uint64                `form:"tag_id"`
	SortBy           string                 `form:"sort_by" validate:"omitempty,oneof=created_at updated_at follower_count quality_score username"`
	SortOrder        string                 `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type KOLDTO struct {
	ID              uint64                 `json:"id"`
	TwitterID       *string                `json:"twitter_id"`
	Username        string                 `json:"username"`
	DisplayName     string                 `json:"display_name"`
	Bio             *string                `json:"bio"`
	FollowerCount   int                    `json:"follower_count"`
	FollowingCount  int                    `json:"following_count"`
	Verified        bool                   `json:"verified"`
	ProfileImgURL   *string                `json:"profile_img_url"`
	Language        *string                `json:"language"`
	LastTweetDate   *time.Time             `json:"last_tweet_date"`
	AccountCreated  *time.Time             `json:"account_created"`
	QualityScore    int                    `json:"quality_score"`
	QualityLevel    model.QualityLevel     `json:"quality_level"`
	ContentCategory *model.ContentCategory `json:"content_category"`
	Status          model.KOLStatus        `json:"status"`
	CustomNotes     *string                `json:"custom_notes"`
	Tags            []*TagDTO              `json:"tags"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type KOLHistoryDTO struct {
	ID        uint64          `json:"id"`
	FieldName string          `json:"field_name"`
	OldValue  json.RawMessage `json:"old_value"`
	NewValue  json.RawMessage `json:"new_value"`
	CreatedAt time.Time       `json:"created_at"`
}
