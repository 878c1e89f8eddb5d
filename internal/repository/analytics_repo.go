package repository

import (
	"KolBD/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// KOLOverviewCounts 概览统计的原始计数
type KOLOverviewCounts struct {
	Total            int64 `gorm:"column:total"`
	NewSince         int64 `gorm:"column:new_since"`
	ContactedSince   int64 `gorm:"column:contacted_since"`
	Reached          int64 `gorm:"column:reached"`
	Responded        int64 `gorm:"column:responded"`
	RespondedSince   int64 `gorm:"column:responded_since"`
	Cooperating      int64 `gorm:"column:cooperating"`
	PendingFollowups int64 `gorm:"column:pending_followups"`
}

// FollowerBucket 粉丝区间 [Min, Max)，Max 为 0 表示无上限
type FollowerBucket struct {
	Label string
	Min   int
	Max   int
}

var FollowerBuckets = []FollowerBucket{
	{"0-1K", 0, 1000},
	{"1K-10K", 1000, 10000},
	{"10K-50K", 10000, 50000},
	{"50K-100K", 50000, 100000},
	{"100K-500K", 100000, 500000},
	{"500K+", 500000, 0},
}

type GroupCount struct {
	Key   string `gorm:"column:k"`
	Count int64  `gorm:"column:c"`
}

// ContactTimes 联系记录的发送与回复时间
type ContactTimes struct {
	TemplateID *uint64    `gorm:"column:template_id"`
	SentAt     time.Time  `gorm:"column:sent_at"`
	RepliedAt  *time.Time `gorm:"column:replied_at"`
}

type AnalyticsRepo interface {
	KOLOverview(ctx context.Context, userID uint64, since time.Time) (*KOLOverviewCounts, error)
	FollowerDistribution(ctx context.Context, userID uint64) ([]int64, error)
	QualityDistribution(ctx context.Context, userID uint64) ([]int64, error)
	CategoryDistribution(ctx context.Context, userID uint64) ([]GroupCount, error)
	StatusDistribution(ctx context.Context, userID uint64) ([]GroupCount, error)
	RepliedTemplateContacts(ctx context.Context, userID uint64) ([]ContactTimes, error)
	ContactsSince(ctx context.Context, userID uint64, since time.Time) ([]ContactTimes, error)
}

type AnalyticsRepoImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepo {
	return &AnalyticsRepoImpl{db: db}
}

var respondedStatuses = []model.KOLStatus{model.KOLStatusReplied, model.KOLStatusNegotiating, model.KOLStatusCooperating}

// KOLOverview 单条聚合查询得到全部概览计数
func (s *AnalyticsRepoImpl) KOLOverview(ctx context.Context, userID uint64, since time.Time) (*KOLOverviewCounts, error) {
	counts := &KOLOverviewCounts{}
	err := s.db.WithContext(ctx).Model(&model.KOL{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS new_since,
			COALESCE(SUM(CASE WHEN status = ? AND updated_at >= ? THEN 1 ELSE 0 END), 0) AS contacted_since,
			COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0) AS reached,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS responded,
			COALESCE(SUM(CASE WHEN status IN ? AND updated_at >= ? THEN 1 ELSE 0 END), 0) AS responded_since,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cooperating,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_followups`,
			since,
			model.KOLStatusContacted, since,
			model.KOLStatusNew,
			respondedStatuses,
			respondedStatuses, since,
			model.KOLStatusCooperating,
			model.KOLStatusReplied,
		).
		Where("user_id = ?", userID).
		Scan(counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// FollowerDistribution 返回值与 FollowerBuckets 一一对应
func (s *AnalyticsRepoImpl) FollowerDistribution(ctx context.Context, userID uint64) ([]int64, error) {
	buckets := make([]rangeExpr, 0, len(FollowerBuckets))
	for _, b := range FollowerBuckets {
		if b.Max == 0 {
			buckets = append(buckets, rangeExpr{"follower_count >= ?", []any{b.Min}})
			continue
		}
		buckets = append(buckets, rangeExpr{"follower_count >= ? AND follower_count < ?", []any{b.Min, b.Max}})
	}
	return s.countRanges(ctx, userID, buckets)
}

// QualityDistribution 返回值与 model.QualityRanges 一一对应
func (s *AnalyticsRepoImpl) QualityDistribution(ctx context.Context, userID uint64) ([]int64, error) {
	buckets := make([]rangeExpr, 0, len(model.QualityRanges))
	for _, r := range model.QualityRanges {
		buckets = append(buckets, rangeExpr{"quality_score BETWEEN ? AND ?", []any{r.Min, r.Max}})
	}
	return s.countRanges(ctx, userID, buckets)
}

type rangeExpr struct {
	cond string
	args []any
}

func (s *AnalyticsRepoImpl) countRanges(ctx context.Context, userID uint64, ranges []rangeExpr) ([]int64, error) {
	counts := make([]int64, len(ranges))
	for i, r := range ranges {
		err := s.db.WithContext(ctx).Model(&model.KOL{}).
			Where("user_id = ?", userID).
			Where(r.cond, r.args...).
			Count(&counts[i]).Error
		if err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// CategoryDistribution content_category 为 NULL 时计入 unknown
func (s *AnalyticsRepoImpl) CategoryDistribution(ctx context.Context, userID uint64) ([]GroupCount, error) {
	rows := make([]GroupCount, 0)
	err := s.db.WithContext(ctx).Model(&model.KOL{}).
		Select("COALESCE(content_category, ?) AS k, COUNT(*) AS c", model.CategoryUnknown).
		Where("user_id = ?", userID).
		Group("k").
		Scan(&rows).Error
	return rows, err
}

func (s *AnalyticsRepoImpl) StatusDistribution(ctx context.Context, userID uint64) ([]GroupCount, error) {
	rows := make([]GroupCount, 0)
	err := s.db.WithContext(ctx).Model(&model.KOL{}).
		Select("status AS k, COUNT(*) AS c").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// RepliedTemplateContacts 使用了模板且已回复的联系记录，用于计算平均回复时长
func (s *AnalyticsRepoImpl) RepliedTemplateContacts(ctx context.Context, userID uint64) ([]ContactTimes, error) {
	rows := make([]ContactTimes, 0)
	err := s.db.WithContext(ctx).Model(&model.ContactLog{}).
		Select("template_id, sent_at, replied_at").
		Where("user_id = ? AND template_id IS NOT NULL AND replied_at IS NOT NULL", userID).
		Scan(&rows).Error
	return rows, err
}

func (s *AnalyticsRepoImpl) ContactsSince(ctx context.Context, userID uint64, since time.Time) ([]ContactTimes, error) {
	rows := make([]ContactTimes, 0)
	err := s.db.WithContext(ctx).Model(&model.ContactLog{}).
		Select("template_id, sent_at, replied_at").
		Where("user_id = ? AND sent_at >= ?", userID, since).
		Order("sent_at ASC").
		Scan(&rows).Error
	return rows, err
}
