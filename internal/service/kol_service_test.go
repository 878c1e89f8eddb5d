package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"KolBD/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newKOLService(f *fixture) KOLService {
	return NewKOLService(f.kols, f.tags, f.tweets)
}

func TestCreateKOL(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)

	kol, err := svc.CreateKOL(f.ctx, f.user.ID, &dto.CreateKOLDTO{
		Username:      "@cryptoking",
		DisplayName:   "Crypto King",
		FollowerCount: util.PtrInt(12000),
		QualityScore:  util.PtrInt(82),
	})
	require.NoError(t, err)
	assert.Equal(t, "cryptoking", kol.Username)
	assert.Equal(t, model.KOLStatusNew, kol.Status)
	assert.Equal(t, 12000, kol.FollowerCount)
	assert.Equal(t, model.QualityGreat, kol.QualityLevel)
	require.NotNil(t, kol.ContentCategory)
	assert.Equal(t, model.CategoryUnknown, *kol.ContentCategory)
	assert.Empty(t, kol.Tags)

	_, err = svc.CreateKOL(f.ctx, f.user.ID, &dto.CreateKOLDTO{Username: "cryptoking", DisplayName: "dup"})
	assert.ErrorIs(t, err, ErrKOLExist)

	// 其它用户可以跟踪同一账号
	other := testutil.CreateUser(t, f.db)
	_, err = svc.CreateKOL(f.ctx, other.ID, &dto.CreateKOLDTO{Username: "cryptoking", DisplayName: "Crypto King"})
	assert.NoError(t, err)

	history, err := svc.ListHistory(f.ctx, f.user.ID, kol.ID, &dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "status", history.Items[0].FieldName)
	assert.Nil(t, history.Items[0].OldValue)
	assert.JSONEq(t, `"new"`, string(history.Items[0].NewValue))
}

func TestUpdateKOLRecordsHistory(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "alpha")

	status := model.KOLStatusContacted
	notes := "met at conference"
	twitterID := "123456"
	updated, err := svc.UpdateKOL(f.ctx, f.user.ID, kol.ID, &dto.UpdateKOLDTO{
		Status:      &status,
		CustomNotes: &notes,
		DisplayName: util.PtrString("alpha"),
		TwitterID:   &twitterID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.KOLStatusContacted, updated.Status)
	require.NotNil(t, updated.TwitterID)
	assert.Equal(t, "123456", *updated.TwitterID)

	history, err := svc.ListHistory(f.ctx, f.user.ID, kol.ID, &dto.PageQuery{})
	require.NoError(t, err)

	// display_name 未变化，twitter_id 不记录历史
	fields := make(map[string]*dto.KOLHistoryDTO)
	for _, h := range history.Items {
		fields[h.FieldName] = h
	}
	assert.Len(t, fields, 2)
	require.Contains(t, fields, "status")
	assert.JSONEq(t, `"new"`, string(fields["status"].OldValue))
	assert.JSONEq(t, `"contacted"`, string(fields["status"].NewValue))
	require.Contains(t, fields, "custom_notes")
	assert.Nil(t, fields["custom_notes"].OldValue)

	// 无变化时不产生新的历史
	_, err = svc.UpdateKOL(f.ctx, f.user.ID, kol.ID, &dto.UpdateKOLDTO{Status: &status})
	require.NoError(t, err)
	again, err := svc.ListHistory(f.ctx, f.user.ID, kol.ID, &dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, history.Total, again.Total)
}

func TestUpdateKOLTrackedFields(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "beta")

	followers, following, score := 5000, 10, 90
	verified := true
	category := model.CategoryWeb3
	now := time.Now().UTC().Truncate(time.Second)
	_, err := svc.UpdateKOL(f.ctx, f.user.ID, kol.ID, &dto.UpdateKOLDTO{
		Username:        util.PtrString("beta_two"),
		DisplayName:     util.PtrString("Beta"),
		Bio:             util.PtrString("onchain analyst"),
		FollowerCount:   &followers,
		FollowingCount:  &following,
		Verified:        &verified,
		ProfileImgURL:   util.PtrString("https://pbs.twimg.com/beta.png"),
		Language:        util.PtrString("ja"),
		QualityScore:    &score,
		ContentCategory: &category,
		LastTweetDate:   &now,
		AccountCreated:  &now,
	})
	require.NoError(t, err)

	history, err := svc.ListHistory(f.ctx, f.user.ID, kol.ID, &dto.PageQuery{Limit: 50})
	require.NoError(t, err)
	var fields []string
	for _, h := range history.Items {
		fields = append(fields, h.FieldName)
	}
	assert.ElementsMatch(t, []string{
		"username", "display_name", "bio", "follower_count", "following_count",
		"verified", "profile_img_url", "language", "quality_score", "content_category",
	}, fields)
	assert.NotContains(t, fields, "last_tweet_date")
	assert.NotContains(t, fields, "account_created")
}

func TestUpdateKOLUsernameConflict(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	testutil.CreateKOL(t, f.db, f.user.ID, "taken")
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "mine")

	_, err := svc.UpdateKOL(f.ctx, f.user.ID, kol.ID, &dto.UpdateKOLDTO{Username: util.PtrString("@taken")})
	assert.ErrorIs(t, err, ErrKOLExist)

	_, err = svc.UpdateKOL(f.ctx, f.user.ID+100, kol.ID, &dto.UpdateKOLDTO{})
	assert.ErrorIs(t, err, ErrKOLNotFound)
}

// vanishingKOLRepo 在更新前删除目标行，模拟读取与写入之间的并发删除
type vanishingKOLRepo struct {
	repository.KOLRepo
	db *gorm.DB
}

func (r vanishingKOLRepo) UpdateKOL(ctx context.Context, kol *model.KOL, updates map[string]any, histories []*model.KOLHistory) error {
	if err := r.db.Delete(&model.KOL{}, kol.ID).Error; err != nil {
		return err
	}
	return r.KOLRepo.UpdateKOL(ctx, kol, updates, histories)
}

func TestUpdateKOLDeletedConcurrently(t *testing.T) {
	f := newFixture(t)
	svc := NewKOLService(vanishingKOLRepo{KOLRepo: f.kols, db: f.db}, f.tags, f.tweets)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "gone")

	_, err := svc.UpdateKOL(f.ctx, f.user.ID, kol.ID, &dto.UpdateKOLDTO{DisplayName: util.PtrString("Gone")})
	assert.ErrorIs(t, err, ErrKOLNotFound)
}

func TestBatchImport(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	testutil.CreateKOL(t, f.db, f.user.ID, "existing")

	res, err := svc.BatchImport(f.ctx, f.user.ID, &dto.BatchImportDTO{Inputs: []string{
		"https://twitter.com/first",
		"@second",
		"https://x.com/First",
		"existing",
		"https://example.com/nope",
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Duplicate)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Errors, 1)
	require.Len(t, res.Imported, 2)
	assert.Equal(t, "first", res.Imported[0].Username)
	assert.Equal(t, "second", res.Imported[1].Username)
}

func TestListKOLs(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	for i, score := range []int{90, 70, 40} {
		kol := testutil.CreateKOL(t, f.db, f.user.ID, []string{"high", "mid", "low"}[i])
		require.NoError(t, f.db.Model(kol).Update("quality_score", score).Error)
	}

	page, err := svc.ListKOLs(f.ctx, f.user.ID, &dto.KOLQueryDTO{QualityLevels: "高质量, 较差", SortBy: "quality_score"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "high", page.Items[0].Username)
	assert.Equal(t, model.QualityExcellent, page.Items[0].QualityLevel)

	_, err = svc.ListKOLs(f.ctx, f.user.ID, &dto.KOLQueryDTO{QualityLevels: "legendary"})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestKOLTags(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	tags := NewTagService(f.tags)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "tagged")

	tag, err := tags.CreateTag(f.ctx, f.user.ID, &dto.CreateTagDTO{Name: " whale "})
	require.NoError(t, err)
	assert.Equal(t, "whale", tag.Name)
	assert.Equal(t, model.DefaultTagColor, tag.Color)

	_, err = tags.CreateTag(f.ctx, f.user.ID, &dto.CreateTagDTO{Name: "whale"})
	assert.ErrorIs(t, err, ErrTagExist)

	got, err := svc.AttachTag(f.ctx, f.user.ID, kol.ID, tag.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "whale", got.Tags[0].Name)

	_, err = svc.AttachTag(f.ctx, f.user.ID, kol.ID, tag.ID)
	assert.ErrorIs(t, err, ErrTagAlreadyAttached)

	list, err := tags.ListTags(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].KOLCount)
	assert.Equal(t, int64(1), *list[0].KOLCount)

	got, err = svc.DetachTag(f.ctx, f.user.ID, kol.ID, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	_, err = svc.DetachTag(f.ctx, f.user.ID, kol.ID, tag.ID)
	assert.ErrorIs(t, err, ErrTagNotFound)

	_, err = svc.AttachTag(f.ctx, f.user.ID, kol.ID, tag.ID+100)
	assert.ErrorIs(t, err, ErrTagNotFound)

	require.NoError(t, tags.DeleteTag(f.ctx, f.user.ID, tag.ID))
	assert.ErrorIs(t, tags.DeleteTag(f.ctx, f.user.ID, tag.ID), ErrTagNotFound)
}

func TestTweets(t *testing.T) {
	f := newFixture(t)
	svc := newKOLService(f)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "poster")

	tweet, err := svc.CreateTweet(f.ctx, f.user.ID, kol.ID, &dto.CreateTweetDTO{
		TweetID:  "1001",
		Content:  "BTC to the moon",
		Likes:    util.PtrInt(10),
		Retweets: util.PtrInt(5),
		Replies:  util.PtrInt(2),
		PostedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 17, tweet.EngagementCount)
	assert.NotNil(t, tweet.CryptoKeywords)

	_, err = svc.CreateTweet(f.ctx, f.user.ID, kol.ID, &dto.CreateTweetDTO{TweetID: "1001", Content: "dup", PostedAt: time.Now()})
	assert.ErrorIs(t, err, ErrTweetExist)

	page, err := svc.ListTweets(f.ctx, f.user.ID, kol.ID, &dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.DeleteKOL(f.ctx, f.user.ID, kol.ID))
	_, err = svc.ListTweets(f.ctx, f.user.ID, kol.ID, &dto.PageQuery{})
	assert.ErrorIs(t, err, ErrKOLNotFound)
}
