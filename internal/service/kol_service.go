package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/database"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

const defaultHistoryLimit = 50

type KOLService interface {
	CreateKOL(ctx context.Context, userID uint64, dto *dto.CreateKOLDTO) (*dto.KOLDTO, error)
	BatchImport(ctx context.Context, userID uint64, dto *dto.BatchImportDTO) (*dto.BatchImportResultDTO, error)
	ListKOLs(ctx context.Context, userID uint64, query *dto.KOLQueryDTO) (*dto.PageDTO[*dto.KOLDTO], error)
	GetKOL(ctx context.Context, userID, id uint64) (*dto.KOLDTO, error)
	UpdateKOL(ctx context.Context, userID, id uint64, dto *dto.UpdateKOLDTO) (*dto.KOLDTO, error)
	DeleteKOL(ctx context.Context, userID, id uint64) error
	AttachTag(ctx context.Context, userID, kolID, tagID uint64) (*dto.KOLDTO, error)
	DetachTag(ctx context.Context, userID, kolID, tagID uint64) (*dto.KOLDTO, error)
	ListHistory(ctx context.Context, userID, kolID uint64, query *dto.PageQuery) (*dto.PageDTO[*dto.KOLHistoryDTO], error)
	ListTweets(ctx context.Context, userID, kolID uint64, query *dto.PageQuery) (*dto.PageDTO[*dto.TweetDTO], error)
	CreateTweet(ctx context.Context, userID, kolID uint64, dto *dto.CreateTweetDTO) (*dto.TweetDTO, error)
}

type KOLServiceImpl struct {
	kolRepo   repository.KOLRepo
	tagRepo   repository.TagRepo
	tweetRepo repository.TweetRepo
}

func NewKOLService(kolRepo repository.KOLRepo, tagRepo repository.TagRepo, tweetRepo repository.TweetRepo) KOLService {
	return &KOLServiceImpl{
		kolRepo:   kolRepo,
		tagRepo:   tagRepo,
		tweetRepo: tweetRepo,
	}
}

func (s *KOLServiceImpl) CreateKOL(ctx context.Context, userID uint64, createDTO *dto.CreateKOLDTO) (*dto.KOLDTO, error) {
	username := strings.TrimPrefix(strings.TrimSpace(createDTO.Username), "@")
	existing, err := s.kolRepo.GetKOLByUsername(ctx, userID, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: @%s", ErrKOLExist, username)
	}

	kol := &model.KOL{}
	if err = copier.Copy(kol, createDTO); err != nil {
		return nil, err
	}
	kol.UserID = userID
	kol.Username = username
	if kol.Status == "" {
		kol.Status = model.KOLStatusNew
	}
	if kol.ContentCategory == nil {
		category := model.CategoryUnknown
		kol.ContentCategory = &category
	}

	if err = s.create(ctx, kol); err != nil {
		return nil, err
	}
	return toKOLDTO(kol)
}

// create 同时写入一条 status 的创建记录
func (s *KOLServiceImpl) create(ctx context.Context, kol *model.KOL) error {
	newValue, err := json.Marshal(kol.Status)
	if err != nil {
		return err
	}
	history := &model.KOLHistory{
		UserID:    kol.UserID,
		FieldName: "status",
		NewValue:  util.PtrString(string(newValue)),
	}
	if err = s.kolRepo.CreateKOL(ctx, kol, history); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return fmt.Errorf("%w: @%s", ErrKOLExist, kol.Username)
		}
		return err
	}
	kol.Tags = make([]model.Tag, 0)
	return nil
}

// BatchImport 逐条解析输入，已存在的计为重复，单条失败不影响其它条目
func (s *KOLServiceImpl) BatchImport(ctx context.Context, userID uint64, importDTO *dto.BatchImportDTO) (*dto.BatchImportResultDTO, error) {
	result := &dto.BatchImportResultDTO{
		Errors:   make([]string, 0),
		Imported: make([]*dto.KOLDTO, 0),
	}

	seen := make(map[string]struct{}, len(importDTO.Inputs))
	usernames := make([]string, 0, len(importDTO.Inputs))
	for _, input := range importDTO.Inputs {
		username, ok := util.ParseTwitterUsername(input)
		if !ok {
			result.Failed++
			result.Errors = append(result.Errors, "无法解析: "+input)
			continue
		}
		key := strings.ToLower(username)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		usernames = append(usernames, username)
	}

	existing, err := s.kolRepo.ExistingUsernames(ctx, userID, usernames)
	if err != nil {
		return nil, err
	}

	for _, username := range usernames {
		if _, ok := existing[strings.ToLower(username)]; ok {
			result.Duplicate++
			continue
		}

		category := model.CategoryUnknown
		kol := &model.KOL{
			UserID:          userID,
			Username:        username,
			DisplayName:     username,
			Status:          model.KOLStatusNew,
			ContentCategory: &category,
		}
		if err = s.create(ctx, kol); err != nil {
			log.WarnContext(ctx, "batch import kol failed", "username", username, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("创建 @%s 失败: %v", username, err))
			continue
		}
		kolDTO, err := toKOLDTO(kol)
		if err != nil {
			return nil, err
		}
		result.Success++
		result.Imported = append(result.Imported, kolDTO)
	}
	return result, nil
}

func (s *KOLServiceImpl) ListKOLs(ctx context.Context, userID uint64, query *dto.KOLQueryDTO) (*dto.PageDTO[*dto.KOLDTO], error) {
	query.Normalize(consts.DefaultPageSize)

	filter := &repository.KOLFilter{
		Page:             repository.Page{Page: query.Page, Limit: query.Limit},
		Search:           strings.TrimSpace(query.Search),
		Status:           query.Status,
		ContentCategory:  query.ContentCategory,
		MinQualityScore:  query.MinQualityScore,
		MaxQualityScore:  query.MaxQualityScore,
		MinFollowerCount: query.MinFollowerCount,
		MaxFollowerCount: query.MaxFollowerCount,
		Verified:         query.Verified,
		TagID:            query.TagID,
		SortBy:           query.SortBy,
		SortDesc:         query.SortOrder != "asc",
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	for _, level := range strings.Split(query.QualityLevels, ",") {
		level = strings.TrimSpace(level)
		if level == "" {
			continue
		}
		r, ok := model.QualityRangeOf(model.QualityLevel(level))
		if !ok {
			return nil, errors.Wrapf(ErrParamInvalid, "quality_levels: %s", level)
		}
		filter.QualityRanges = append(filter.QualityRanges, r)
	}

	kols, total, err := s.kolRepo.ListKOLs(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.KOLDTO, 0, len(kols))
	for _, k := range kols {
		kolDTO, err := toKOLDTO(k)
		if err != nil {
			return nil, err
		}
		items = append(items, kolDTO)
	}
	return dto.NewPage(items, total, query.Page, query.Limit), nil
}

func (s *KOLServiceImpl) GetKOL(ctx context.Context, userID, id uint64) (*dto.KOLDTO, error) {
	kol, err := s.getKOL(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toKOLDTO(kol)
}

// UpdateKOL 每个实际变化的跟踪字段记录一条历史，旧值新值均为 JSON
func (s *KOLServiceImpl) UpdateKOL(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateKOLDTO) (*dto.KOLDTO, error) {
	kol, err := s.getKOL(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if updateDTO.Username != nil {
		username := strings.TrimPrefix(strings.TrimSpace(*updateDTO.Username), "@")
		updateDTO.Username = &username
		other, err := s.kolRepo.GetKOLByUsername(ctx, userID, username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != kol.ID {
			return nil, fmt.Errorf("%w: @%s", ErrKOLExist, username)
		}
	}

	c := &kolChanges{userID: userID, updates: make(map[string]any)}
	c.track("status", kol.Status, updateDTO.Status)
	c.track("custom_notes", kol.CustomNotes, updateDTO.CustomNotes)
	c.track("quality_score", kol.QualityScore, updateDTO.QualityScore)
	c.track("content_category", kol.ContentCategory, updateDTO.ContentCategory)
	c.track("language", kol.Language, updateDTO.Language)
	c.track("follower_count", kol.FollowerCount, updateDTO.FollowerCount)
	c.track("following_count", kol.FollowingCount, updateDTO.FollowingCount)
	c.track("bio", kol.Bio, updateDTO.Bio)
	c.track("display_name", kol.DisplayName, updateDTO.DisplayName)
	c.track("username", kol.Username, updateDTO.Username)
	c.track("verified", kol.Verified, updateDTO.Verified)
	c.track("profile_img_url", kol.ProfileImgURL, updateDTO.ProfileImgURL)
	c.set("twitter_id", kol.TwitterID, updateDTO.TwitterID)
	c.set("last_tweet_date", kol.LastTweetDate, updateDTO.LastTweetDate)
	c.set("account_created", kol.AccountCreated, updateDTO.AccountCreated)
	if c.err != nil {
		return nil, c.err
	}

	if err = s.kolRepo.UpdateKOL(ctx, kol, c.updates, c.histories); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrKOLExist
		}
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrKOLNotFound
		}
		return nil, err
	}
	return s.GetKOL(ctx, userID, id)
}

func (s *KOLServiceImpl) DeleteKOL(ctx context.Context, userID, id uint64) error {
	affected, err := s.kolRepo.DeleteKOL(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrKOLNotFound
	}
	return nil
}

func (s *KOLServiceImpl) AttachTag(ctx context.Context, userID, kolID, tagID uint64) (*dto.KOLDTO, error) {
	if err := s.checkKOLAndTag(ctx, userID, kolID, tagID); err != nil {
		return nil, err
	}
	if err := s.kolRepo.AttachTag(ctx, kolID, tagID); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrTagAlreadyAttached
		}
		return nil, err
	}
	return s.GetKOL(ctx, userID, kolID)
}

func (s *KOLServiceImpl) DetachTag(ctx context.Context, userID, kolID, tagID uint64) (*dto.KOLDTO, error) {
	if err := s.checkKOLAndTag(ctx, userID, kolID, tagID); err != nil {
		return nil, err
	}
	affected, err := s.kolRepo.DetachTag(ctx, kolID, tagID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTagNotFound
	}
	return s.GetKOL(ctx, userID, kolID)
}

func (s *KOLServiceImpl) ListHistory(ctx context.Context, userID, kolID uint64, query *dto.PageQuery) (*dto.PageDTO[*dto.KOLHistoryDTO], error) {
	if _, err := s.getKOL(ctx, userID, kolID); err != nil {
		return nil, err
	}
	query.Normalize(defaultHistoryLimit)

	histories, total, err := s.kolRepo.ListHistory(ctx, kolID, repository.Page{Page: query.Page, Limit: query.Limit})
	if err != nil {
		return nil, err
	}
	items := make([]*dto.KOLHistoryDTO, 0, len(histories))
	for _, h := range histories {
		items = append(items, &dto.KOLHistoryDTO{
			ID:        h.ID,
			FieldName: h.FieldName,
			OldValue:  rawJSON(h.OldValue),
			NewValue:  rawJSON(h.NewValue),
			CreatedAt: h.CreatedAt,
		})
	}
	return dto.NewPage(items, total, query.Page, query.Limit), nil
}

func (s *KOLServiceImpl) ListTweets(ctx context.Context, userID, kolID uint64, query *dto.PageQuery) (*dto.PageDTO[*dto.TweetDTO], error) {
	if _, err := s.getKOL(ctx, userID, kolID); err != nil {
		return nil, err
	}
	query.Normalize(consts.DefaultPageSize)

	tweets, total, err := s.tweetRepo.ListTweets(ctx, kolID, repository.Page{Page: query.Page, Limit: query.Limit})
	if err != nil {
		return nil, err
	}
	items := make([]*dto.TweetDTO, 0, len(tweets))
	for _, t := range tweets {
		tweetDTO, err := toTweetDTO(t)
		if err != nil {
			return nil, err
		}
		items = append(items, tweetDTO)
	}
	return dto.NewPage(items, total, query.Page, query.Limit), nil
}

func (s *KOLServiceImpl) CreateTweet(ctx context.Context, userID, kolID uint64, tweetDTO *dto.CreateTweetDTO) (*dto.TweetDTO, error) {
	if _, err := s.getKOL(ctx, userID, kolID); err != nil {
		return nil, err
	}

	tweet := &model.Tweet{}
	if err := copier.Copy(tweet, tweetDTO); err != nil {
		return nil, err
	}
	tweet.KOLID = kolID
	if tweet.CryptoKeywords == nil {
		tweet.CryptoKeywords = make([]string, 0)
	}

	if err := s.tweetRepo.CreateTweet(ctx, tweet); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrTweetExist
		}
		return nil, err
	}
	return toTweetDTO(tweet)
}

func (s *KOLServiceImpl) getKOL(ctx context.Context, userID, id uint64) (*model.KOL, error) {
	kol, err := s.kolRepo.GetKOLById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if kol == nil {
		return nil, ErrKOLNotFound
	}
	return kol, nil
}

func (s *KOLServiceImpl) checkKOLAndTag(ctx context.Context, userID, kolID, tagID uint64) error {
	if _, err := s.getKOL(ctx, userID, kolID); err != nil {
		return err
	}
	tag, err := s.tagRepo.GetTagById(ctx, userID, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrTagNotFound
	}
	return nil
}

// kolChanges 收集更新字段及对应的历史记录
type kolChanges struct {
	userID    uint64
	updates   map[string]any
	histories []*model.KOLHistory
	err       error
}

func (c *kolChanges) track(column string, oldValue, newValue any) {
	c.apply(column, oldValue, newValue, true)
}

func (c *kolChanges) set(column string, oldValue, newValue any) {
	c.apply(column, oldValue, newValue, false)
}

// apply newValue 为 nil 指针表示未提供该字段
func (c *kolChanges) apply(column string, oldValue, newValue any, tracked bool) {
	if c.err != nil || isNilPointer(newValue) {
		return
	}
	oldJSON, err := json.Marshal(oldValue)
	if err != nil {
		c.err = err
		return
	}
	newJSON, err := json.Marshal(newValue)
	if err != nil {
		c.err = err
		return
	}
	if bytes.Equal(oldJSON, newJSON) {
		return
	}

	c.updates[column] = reflect.Indirect(reflect.ValueOf(newValue)).Interface()
	if !tracked {
		return
	}
	history := &model.KOLHistory{
		UserID:    c.userID,
		FieldName: column,
		NewValue:  util.PtrString(string(newJSON)),
	}
	if string(oldJSON) != "null" {
		history.OldValue = util.PtrString(string(oldJSON))
	}
	c.histories = append(c.histories, history)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil())
}

func rawJSON(s *string) json.RawMessage {
	if s == nil {
		return nil
	}
	return json.RawMessage(*s)
}

func toKOLDTO(kol *model.KOL) (*dto.KOLDTO, error) {
	plain := *kol
	plain.Tags = nil

	kolDTO := &dto.KOLDTO{}
	if err := copier.Copy(kolDTO, &plain); err != nil {
		return nil, err
	}
	kolDTO.QualityLevel = model.QualityLevelOf(kol.QualityScore)
	kolDTO.Tags = make([]*dto.TagDTO, 0, len(kol.Tags))
	for i := range kol.Tags {
		kolDTO.Tags = append(kolDTO.Tags, toTagDTO(&kol.Tags[i], nil))
	}
	return kolDTO, nil
}

func toTweetDTO(tweet *model.Tweet) (*dto.TweetDTO, error) {
	tweetDTO := &dto.TweetDTO{}
	if err := copier.Copy(tweetDTO, tweet); err != nil {
		return nil, err
	}
	tweetDTO.EngagementCount = tweet.EngagementCount()
	if tweetDTO.CryptoKeywords == nil {
		tweetDTO.CryptoKeywords = make([]string, 0)
	}
	return tweetDTO, nil
}
