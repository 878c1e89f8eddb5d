package repository

import (
	"KolBD/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type TemplateFilter struct {
	Page
	Search      string
	Category    *model.TemplateCategory
	Language    string
	AIGenerated *bool
}

type TemplateRepo interface {
	GetTemplateById(ctx context.Context, userID, id uint64) (*model.Template, error)
	ListTemplates(ctx context.Context, userID uint64, filter *TemplateFilter) ([]*model.Template, int64, error)
	ListAllTemplates(ctx context.Context, userID uint64) ([]*model.Template, error)
	CreateTemplate(ctx context.Context, template *model.Template) error
	UpdateTemplate(ctx context.Context, template *model.Template, updates map[string]any) error
	DeleteTemplate(ctx context.Context, userID, id uint64) (int64, error)
}

type TemplateRepoImpl struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepo {
	return &TemplateRepoImpl{db: db}
}

func (s *TemplateRepoImpl) GetTemplateById(ctx context.Context, userID, id uint64) (*model.Template, error) {
	template := &model.Template{}
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(template)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return template, nil
}

func (s *TemplateRepoImpl) ListTemplates(ctx context.Context, userID uint64, filter *TemplateFilter) ([]*model.Template, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Template{}).Where("user_id = ?", userID)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name)"+likeEscape+" OR LOWER(content)"+likeEscape, pattern, pattern)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.AIGenerated != nil {
		query = query.Where("ai_generated = ?", *filter.AIGenerated)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	templates := make([]*model.Template, 0)
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&templates).Error
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

// ListAllTemplates 统计用，不分页
func (s *TemplateRepoImpl) ListAllTemplates(ctx context.Context, userID uint64) ([]*model.Template, error) {
	templates := make([]*model.Template, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&templates).Error
	return templates, err
}

func (s *TemplateRepoImpl) CreateTemplate(ctx context.Context, template *model.Template) error {
	return wrapErr(s.db.WithContext(ctx).Create(template).Error)
}

func (s *TemplateRepoImpl) UpdateTemplate(ctx context.Context, template *model.Template, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(template).
		Where("user_id = ?", template.UserID).
		Updates(updates).Error
	return wrapErr(err)
}

// DeleteTemplate 引用该模板的联系记录 template_id 置空
func (s *TemplateRepoImpl) DeleteTemplate(ctx context.Context, userID, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Template{})
	return result.RowsAffected, wrapErr(result.Error)
}
