package repository

import (
	"KolBD/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// TagWithCount 标签及其关联的 KOL 数
type TagWithCount struct {
	model.Tag
	KOLCount int64 `gorm:"column:kol_count"`
}

type TagRepo interface {
	GetTagById(ctx context.Context, userID, id uint64) (*model.Tag, error)
	ListTags(ctx context.Context, userID uint64) ([]*TagWithCount, error)
	CreateTag(ctx context.Context, tag *model.Tag) error
	UpdateTag(ctx context.Context, tag *model.Tag, updates map[string]any) error
	DeleteTag(ctx context.Context, userID, id uint64) (int64, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

func (s *tagRepoImpl) GetTagById(ctx context.Context, userID, id uint64) (*model.Tag, error) {
	tag := &model.Tag{}
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagRepoImpl) ListTags(ctx context.Context, userID uint64) ([]*TagWithCount, error) {
	tags := make([]*TagWithCount, 0)
	err := s.db.WithContext(ctx).
		Table("tags").
		Select("tags.*, (SELECT COUNT(*) FROM kol_tags WHERE kol_tags.tag_id = tags.id) AS kol_count").
		Where("tags.user_id = ?", userID).
		Order("tags.name ASC").
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag 同一用户下重名返回 UniqueViolation(uq_user_tag_name)
func (s *tagRepoImpl) CreateTag(ctx context.Context, tag *model.Tag) error {
	return wrapErr(s.db.WithContext(ctx).Create(tag).Error)
}

func (s *tagRepoImpl) UpdateTag(ctx context.Context, tag *model.Tag, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(tag).
		Where("user_id = ?", tag.UserID).
		Updates(updates).Error
	return wrapErr(err)
}

// DeleteTag kol_tags 中的关联随之级联删除
func (s *tagRepoImpl) DeleteTag(ctx context.Context, userID, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Tag{})
	return result.RowsAffected, wrapErr(result.Error)
}
