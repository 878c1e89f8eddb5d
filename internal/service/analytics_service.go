package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/enum"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultOverviewDays = 7
	defaultTimelineDays = 7
)

type AnalyticsService interface {
	Overview(ctx context.Context, userID uint64, days int) (*dto.OverviewDTO, error)
	Distributions(ctx context.Context, userID uint64) (*dto.DistributionsDTO, error)
	TemplateEffectiveness(ctx context.Context, userID uint64) ([]*dto.TemplateEffectivenessDTO, error)
	Timeline(ctx context.Context, userID uint64, days int) ([]*dto.TimelinePointDTO, error)
}

type AnalyticsServiceImpl struct {
	analyticsRepo repository.AnalyticsRepo
	templateRepo  repository.TemplateRepo
	now           func() time.Time
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepo, templateRepo repository.TemplateRepo) AnalyticsService {
	return &AnalyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		templateRepo:  templateRepo,
		now:           time.Now,
	}
}

// Overview 响应率 = 已回复/协商中/合作中 ÷ 非 new 状态，百分比保留一位小数；
// 周响应率的分母为窗口内仍处于 contacted 与已响应的 KOL 之和，不会超过 100
func (s *AnalyticsServiceImpl) Overview(ctx context.Context, userID uint64, days int) (*dto.OverviewDTO, error) {
	if days <= 0 {
		days = defaultOverviewDays
	}
	since := s.now().AddDate(0, 0, -days)

	counts, err := s.analyticsRepo.KOLOverview(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	return &dto.OverviewDTO{
		TotalKOLs:           counts.Total,
		NewKOLsThisWeek:     counts.NewSince,
		ContactedThisWeek:   counts.ContactedSince,
		OverallResponseRate: util.Percent(counts.Responded, counts.Reached),
		WeeklyResponseRate:  util.Percent(counts.RespondedSince, counts.ContactedSince+counts.RespondedSince),
		ActivePartnerships:  counts.Cooperating,
		PendingFollowups:    counts.PendingFollowups,
	}, nil
}

// Distributions 四个维度并发查询
func (s *AnalyticsServiceImpl) Distributions(ctx context.Context, userID uint64) (*dto.DistributionsDTO, error) {
	var (
		followers, quality []int64
		categories, status []repository.GroupCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		followers, err = s.analyticsRepo.FollowerDistribution(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		quality, err = s.analyticsRepo.QualityDistribution(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.analyticsRepo.CategoryDistribution(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		status, err = s.analyticsRepo.StatusDistribution(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DistributionsDTO{
		ByFollowerCount:   make([]dto.RangeCountDTO, 0, len(repository.FollowerBuckets)),
		ByQualityScore:    make([]dto.LevelCountDTO, 0, len(model.QualityRanges)),
		ByContentCategory: make([]dto.CategoryCountDTO, 0),
		ByStatus:          make([]dto.StatusCountDTO, 0),
	}
	for i, b := range repository.FollowerBuckets {
		out.ByFollowerCount = append(out.ByFollowerCount, dto.RangeCountDTO{Range: b.Label, Count: followers[i]})
	}
	for i, r := range model.QualityRanges {
		out.ByQualityScore = append(out.ByQualityScore, dto.LevelCountDTO{Level: string(r.Level), Count: quality[i]})
	}

	categoryCounts := groupMap(categories)
	for _, c := range enum.Values[model.ContentCategory]() {
		out.ByContentCategory = append(out.ByContentCategory, dto.CategoryCountDTO{Category: string(c), Count: categoryCounts[string(c)]})
	}
	statusCounts := groupMap(status)
	for _, st := range enum.Values[model.KOLStatus]() {
		out.ByStatus = append(out.ByStatus, dto.StatusCountDTO{Status: string(st), Count: statusCounts[string(st)]})
	}
	return out, nil
}

// TemplateEffectiveness 按回复率降序，平均回复时长单位为小时
func (s *AnalyticsServiceImpl) TemplateEffectiveness(ctx context.Context, userID uint64) ([]*dto.TemplateEffectivenessDTO, error) {
	templates, err := s.templateRepo.ListAllTemplates(ctx, userID)
	if err != nil {
		return nil, err
	}
	replied, err := s.analyticsRepo.RepliedTemplateContacts(ctx, userID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		hours float64
		n     int
	}
	byTemplate := make(map[uint64]*acc)
	for _, c := range replied {
		if c.TemplateID == nil || c.RepliedAt == nil {
			continue
		}
		a, ok := byTemplate[*c.TemplateID]
		if !ok {
			a = &acc{}
			byTemplate[*c.TemplateID] = a
		}
		a.hours += c.RepliedAt.Sub(c.SentAt).Hours()
		a.n++
	}

	out := make([]*dto.TemplateEffectivenessDTO, 0, len(templates))
	for _, t := range templates {
		item := &dto.TemplateEffectivenessDTO{
			ID:            t.ID,
			Name:          t.Name,
			Category:      string(t.Category),
			UseCount:      t.UseCount,
			ResponseCount: t.SuccessCount,
			ResponseRate:  util.Percent(int64(t.SuccessCount), int64(t.UseCount)),
		}
		if a, ok := byTemplate[t.ID]; ok && a.n > 0 {
			avg := util.Round1(a.hours / float64(a.n))
			item.AvgResponseTime = &avg
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ResponseRate > out[j].ResponseRate
	})
	return out, nil
}

// Timeline 以 UTC 自然日为桶，包含今天在内的最近 days 天
func (s *AnalyticsServiceImpl) Timeline(ctx context.Context, userID uint64, days int) ([]*dto.TimelinePointDTO, error) {
	if days <= 0 {
		days = defaultTimelineDays
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	contacts, err := s.analyticsRepo.ContactsSince(ctx, userID, start.Local())
	if err != nil {
		return nil, err
	}

	points := make([]*dto.TimelinePointDTO, days)
	index := make(map[string]*dto.TimelinePointDTO, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(time.DateOnly)
		points[i] = &dto.TimelinePointDTO{Date: date}
		index[date] = points[i]
	}
	for _, c := range contacts {
		if p, ok := index[c.SentAt.UTC().Format(time.DateOnly)]; ok {
			p.ContactsCount++
		}
		if c.RepliedAt == nil {
			continue
		}
		if p, ok := index[c.RepliedAt.UTC().Format(time.DateOnly)]; ok {
			p.ResponsesCount++
		}
	}
	return points, nil
}

func groupMap(rows []repository.GroupCount) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Key] += r.Count
	}
	return m
}
