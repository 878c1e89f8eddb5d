package repository

import (
	"KolBD/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ContactFilter struct {
	Page
	KOLID  *uint64
	Status *model.ContactStatus
}

type ContactLogRepo interface {
	GetContactById(ctx context.Context, userID, id uint64) (*model.ContactLog, error)
	ListContacts(ctx context.Context, userID uint64, filter *ContactFilter) ([]*model.ContactLog, int64, error)
	CreateContact(ctx context.Context, contact *model.ContactLog) error
	UpdateContact(ctx context.Context, contact *model.ContactLog, updates map[string]any, replied bool) error
	DeleteContact(ctx context.Context, userID, id uint64) (int64, error)
}

type ContactLogRepoImpl struct {
	db *gorm.DB
}

func NewContactLogRepo(db *gorm.DB) ContactLogRepo {
	return &ContactLogRepoImpl{db: db}
}

func (s *ContactLogRepoImpl) GetContactById(ctx context.Context, userID, id uint64) (*model.ContactLog, error) {
	contact := &model.ContactLog{}
	result := s.db.WithContext(ctx).
		Preload("KOL").
		Preload("Template").
		Where("id = ? AND user_id = ?", id, userID).
		First(contact)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return contact, nil
}

func (s *ContactLogRepoImpl) ListContacts(ctx context.Context, userID uint64, filter *ContactFilter) ([]*model.ContactLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.ContactLog{}).Where("user_id = ?", userID)
	if filter.KOLID != nil {
		query = query.Where("kol_id = ?", *filter.KOLID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contacts := make([]*model.ContactLog, 0)
	err := query.Preload("KOL").Preload("Template").
		Order("sent_at DESC").Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// CreateContact 写入记录、累加模板使用次数、推进 KOL 状态 new -> contacted，同一事务
func (s *ContactLogRepoImpl) CreateContact(ctx context.Context, contact *model.ContactLog) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("KOL", "Template").Create(contact).Error; err != nil {
			return err
		}
		if contact.TemplateID != nil {
			err := tx.Model(&model.Template{}).
				Where("id = ?", *contact.TemplateID).
				UpdateColumn("use_count", gorm.Expr("use_count + 1")).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&model.KOL{}).
			Where("id = ? AND status = ?", contact.KOLID, model.KOLStatusNew).
			Updates(map[string]any{"status": model.KOLStatusContacted, "updated_at": time.Now()}).Error
	})
	return wrapErr(err)
}

// UpdateContact replied 为 true 表示本次由未回复转为已回复，
// 此时累加模板成功次数并推进 KOL 状态 contacted -> replied
func (s *ContactLogRepoImpl) UpdateContact(ctx context.Context, contact *model.ContactLog, updates map[string]any, replied bool) error {
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.ContactLog{}).
			Where("id = ? AND user_id = ?", contact.ID, contact.UserID).
			Updates(updates).Error
		if err != nil {
			return err
		}
		if !replied {
			return nil
		}
		if contact.TemplateID != nil {
			err = tx.Model(&model.Template{}).
				Where("id = ?", *contact.TemplateID).
				UpdateColumn("success_count", gorm.Expr("success_count + 1")).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&model.KOL{}).
			Where("id = ? AND status = ?", contact.KOLID, model.KOLStatusContacted).
			Updates(map[string]any{"status": model.KOLStatusReplied, "updated_at": time.Now()}).Error
	})
	return wrapErr(err)
}

func (s *ContactLogRepoImpl) DeleteContact(ctx context.Context, userID, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ContactLog{})
	return result.RowsAffected, wrapErr(result.Error)
}
