package repository

import (
	"KolBD/internal/model"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// KOLFilter 列表查询条件，全部可选
type KOLFilter struct {
	Page
	Search           string
	Status           *model.KOLStatus
	ContentCategory  *model.ContentCategory
	QualityRanges    []model.QualityRange
	MinQualityScore  *int
	MaxQualityScore  *int
	MinFollowerCount *int
	MaxFollowerCount *int
	Verified         *bool
	TagID            *uint64
	SortBy           string
	SortDesc         bool
}

// kolSortColumns 允许排序的列，防止拼接任意字段
var kolSortColumns = map[string]string{
	"created_at":     "created_at",
	"updated_at":     "updated_at",
	"follower_count": "follower_count",
	"quality_score":  "quality_score",
	"username":       "username",
}

type KOLRepo interface {
	GetKOLById(ctx context.Context, userID, id uint64) (*model.KOL, error)
	GetKOLByUsername(ctx context.Context, userID uint64, username string) (*model.KOL, error)
	ExistingUsernames(ctx context.Context, userID uint64, usernames []string) (map[string]struct{}, error)
	ListKOLs(ctx context.Context, userID uint64, filter *KOLFilter) ([]*model.KOL, int64, error)
	CreateKOL(ctx context.Context, kol *model.KOL, history *model.KOLHistory) error
	UpdateKOL(ctx context.Context, kol *model.KOL, updates map[string]any, histories []*model.KOLHistory) error
	DeleteKOL(ctx context.Context, userID, id uint64) (int64, error)
	AttachTag(ctx context.Context, kolID, tagID uint64) error
	DetachTag(ctx context.Context, kolID, tagID uint64) (int64, error)
	ListHistory(ctx context.Context, kolID uint64, page Page) ([]*model.KOLHistory, int64, error)
}

type KOLRepoImpl struct {
	db *gorm.DB
}

func NewKOLRepo(db *gorm.DB) KOLRepo {
	return &KOLRepoImpl{db: db}
}

// GetKOLById 只返回属于 userID 的 KOL，附带标签
func (s *KOLRepoImpl) GetKOLById(ctx context.Context, userID, id uint64) (*model.KOL, error) {
	kol := &model.KOL{}
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(kol)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	if err := s.loadTags(ctx, []*model.KOL{kol}); err != nil {
		return nil, err
	}
	return kol, nil
}

// GetKOLByUsername 同一用户下用户名不区分大小写
func (s *KOLRepoImpl) GetKOLByUsername(ctx context.Context, userID uint64, username string) (*model.KOL, error) {
	kol := &model.KOL{}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(username) = ?", userID, strings.ToLower(username)).
		First(kol)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return kol, nil
}

// ExistingUsernames 返回已存在的用户名集合，键为小写
func (s *KOLRepoImpl) ExistingUsernames(ctx context.Context, userID uint64, usernames []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(usernames) == 0 {
		return existing, nil
	}
	lowered := make([]string, 0, len(usernames))
	for _, u := range usernames {
		lowered = append(lowered, strings.ToLower(u))
	}

	var found []string
	err := s.db.WithContext(ctx).Model(&model.KOL{}).
		Where("user_id = ? AND LOWER(username) IN ?", userID, lowered).
		Pluck("username", &found).Error
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		existing[strings.ToLower(u)] = struct{}{}
	}
	return existing, nil
}

func (s *KOLRepoImpl) ListKOLs(ctx context.Context, userID uint64, filter *KOLFilter) ([]*model.KOL, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.KOL{}).Where("kols.user_id = ?", userID)

	if search := strings.TrimPrefix(strings.TrimSpace(filter.Search), "@"); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(kols.username)"+likeEscape+" OR LOWER(kols.display_name)"+likeEscape, pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("kols.status = ?", *filter.Status)
	}
	if filter.ContentCategory != nil {
		query = query.Where("kols.content_category = ?", *filter.ContentCategory)
	}
	if len(filter.QualityRanges) > 0 {
		// 多个质量等级之间是 OR
		first := filter.QualityRanges[0]
		levels := s.db.Where("kols.quality_score BETWEEN ? AND ?", first.Min, first.Max)
		for _, r := range filter.QualityRanges[1:] {
			levels = levels.Or("kols.quality_score BETWEEN ? AND ?", r.Min, r.Max)
		}
		query = query.Where(levels)
	}
	if filter.MinQualityScore != nil {
		query = query.Where("kols.quality_score >= ?", *filter.MinQualityScore)
	}
	if filter.MaxQualityScore != nil {
		query = query.Where("kols.quality_score <= ?", *filter.MaxQualityScore)
	}
	if filter.MinFollowerCount != nil {
		query = query.Where("kols.follower_count >= ?", *filter.MinFollowerCount)
	}
	if filter.MaxFollowerCount != nil {
		query = query.Where("kols.follower_count <= ?", *filter.MaxFollowerCount)
	}
	if filter.Verified != nil {
		query = query.Where("kols.verified = ?", *filter.Verified)
	}
	if filter.TagID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM kol_tags WHERE kol_tags.kol_id = kols.id AND kol_tags.tag_id = ?)", *filter.TagID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := kolSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if filter.SortDesc {
		direction = " DESC"
	}

	kols := make([]*model.KOL, 0)
	err := query.Order("kols." + column + direction).Order("kols.id" + direction).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&kols).Error
	if err != nil {
		return nil, 0, err
	}
	if err = s.loadTags(ctx, kols); err != nil {
		return nil, 0, err
	}
	return kols, total, nil
}

// CreateKOL KOL 与创建记录在同一事务内写入
func (s *KOLRepoImpl) CreateKOL(ctx context.Context, kol *model.KOL, history *model.KOLHistory) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(kol).Error; err != nil {
			return err
		}
		if history != nil {
			history.KOLID = kol.ID
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrapErr(err)
}

func (s *KOLRepoImpl) UpdateKOL(ctx context.Context, kol *model.KOL, updates map[string]any, histories []*model.KOLHistory) error {
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(kol).Where("user_id = ?", kol.UserID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		if len(histories) > 0 {
			for _, h := range histories {
				h.KOLID = kol.ID
			}
			if err := tx.Create(&histories).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrapErr(err)
}

// DeleteKOL 推文、联系记录、标签关联、历史由外键级联删除
func (s *KOLRepoImpl) DeleteKOL(ctx context.Context, userID, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.KOL{})
	return result.RowsAffected, wrapErr(result.Error)
}

// AttachTag 重复关联返回 UniqueViolation
func (s *KOLRepoImpl) AttachTag(ctx context.Context, kolID, tagID uint64) error {
	return wrapErr(s.db.WithContext(ctx).Create(&model.KOLTag{KOLID: kolID, TagID: tagID}).Error)
}

func (s *KOLRepoImpl) DetachTag(ctx context.Context, kolID, tagID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("kol_id = ? AND tag_id = ?", kolID, tagID).
		Delete(&model.KOLTag{})
	return result.RowsAffected, result.Error
}

func (s *KOLRepoImpl) ListHistory(ctx context.Context, kolID uint64, page Page) ([]*model.KOLHistory, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.KOLHistory{}).Where("kol_id = ?", kolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	histories := make([]*model.KOLHistory, 0)
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&histories).Error
	if err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}

// loadTags 一次查询装载多个 KOL 的标签
func (s *KOLRepoImpl) loadTags(ctx context.Context, kols []*model.KOL) error {
	if len(kols) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(kols))
	byID := make(map[uint64]*model.KOL, len(kols))
	for _, k := range kols {
		k.Tags = make([]model.Tag, 0)
		ids = append(ids, k.ID)
		byID[k.ID] = k
	}

	type kolTagRow struct {
		model.Tag
		KOLID uint64 `gorm:"column:kol_id"`
	}
	var rows []kolTagRow
	err := s.db.WithContext(ctx).
		Table("tags").
		Select("tags.*, kol_tags.kol_id").
		Joins("JOIN kol_tags ON kol_tags.tag_id = tags.id").
		Where("kol_tags.kol_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		if k, ok := byID[row.KOLID]; ok {
			k.Tags = append(k.Tags, row.Tag)
		}
	}
	return nil
}
