package repository

import (
	"KolBD/internal/model"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// UserFilter 管理端用户列表筛选
type UserFilter struct {
	Page
	Search   string
	Role     *model.UserRole
	IsActive *bool
}

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error)
	ListUsers(ctx context.Context, filter *UserFilter) ([]*model.User, int64, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id uint64, updates map[string]any) error
	DeleteUser(ctx context.Context, id uint64) (int64, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

// GetUserByEmail 邮箱统一按小写存储
func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserRepoImpl) ListUsers(ctx context.Context, filter *UserFilter) ([]*model.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(email)"+likeEscape+" OR LOWER(full_name)"+likeEscape, pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*model.User, 0)
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return wrapErr(s.db.WithContext(ctx).Create(user).Error)
}

func (s *UserRepoImpl) UpdateUser(ctx context.Context, id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return wrapErr(s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error)
}

// DeleteUser 名下 KOL、模板、联系记录、标签由外键级联删除
func (s *UserRepoImpl) DeleteUser(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.User{}, id)
	return result.RowsAffected, wrapErr(result.Error)
}

