package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/util"
	"KolBD/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCRUDAndPreview(t *testing.T) {
	f := newFixture(t)
	svc := NewTemplateService(f.templates, f.kols, f.users).(*TemplateServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }

	created, err := svc.CreateTemplate(f.ctx, f.user.ID, &dto.CreateTemplateDTO{
		Name:     " Intro ",
		Category: model.TemplateInitial,
		Content:  "Hi {{display_name}} (@{{username}}), {{my_name}} from {{exchange_name}} on {{today_cn}}. {{unknown}}",
	})
	require.NoError(t, err)
	assert.Equal(t, "Intro", created.Name)
	assert.Equal(t, "en", created.Language)
	assert.Equal(t, []string{"display_name", "username", "my_name", "exchange_name", "today_cn", "unknown"}, created.Variables)

	kol := testutil.CreateKOL(t, f.db, f.user.ID, "satoshi")
	preview, err := svc.PreviewTemplate(f.ctx, f.user.ID, created.ID, &dto.PreviewTemplateDTO{KOLID: &kol.ID})
	require.NoError(t, err)
	assert.Equal(t, "Hi satoshi (@satoshi), "+f.user.FullName+" from KCEX on 2026年3月10日. {{unknown}}", preview.PreviewContent)
	assert.Equal(t, created.Content, preview.OriginalContent)

	// 不指定 KOL 时 KOL 变量保持原样
	preview, err = svc.PreviewTemplate(f.ctx, f.user.ID, created.ID, nil)
	require.NoError(t, err)
	assert.Contains(t, preview.PreviewContent, "Hi {{display_name}} (@{{username}})")

	missing := kol.ID + 100
	_, err = svc.PreviewTemplate(f.ctx, f.user.ID, created.ID, &dto.PreviewTemplateDTO{KOLID: &missing})
	assert.ErrorIs(t, err, ErrKOLNotFound)

	lang := "zh"
	updated, err := svc.UpdateTemplate(f.ctx, f.user.ID, created.ID, &dto.UpdateTemplateDTO{Language: &lang})
	require.NoError(t, err)
	assert.Equal(t, "zh", updated.Language)

	page, err := svc.ListTemplates(f.ctx, f.user.ID, &dto.TemplateQueryDTO{Language: "zh"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, defaultTemplateLimit, page.Limit)

	require.NoError(t, svc.DeleteTemplate(f.ctx, f.user.ID, created.ID))
	_, err = svc.GetTemplate(f.ctx, f.user.ID, created.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestContactLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.contacts, f.kols, f.templates)
	templates := NewTemplateService(f.templates, f.kols, f.users)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "target")
	template := testutil.CreateTemplate(t, f.db, f.user.ID)

	sentAt := time.Now().Add(-3 * time.Hour)
	contact, err := svc.CreateContact(f.ctx, f.user.ID, &dto.CreateContactDTO{
		KOLID:          kol.ID,
		TemplateID:     &template.ID,
		MessageContent: "gm",
		SentAt:         &sentAt,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContactDM, contact.ContactType)
	assert.Equal(t, model.ContactSent, contact.Status)
	require.NotNil(t, contact.KOL)
	assert.Equal(t, "target", contact.KOL.Username)
	require.NotNil(t, contact.Template)
	assert.Nil(t, contact.ResponseHours)

	got, err := NewKOLService(f.kols, f.tags, f.tweets).GetKOL(f.ctx, f.user.ID, kol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KOLStatusContacted, got.Status)

	repliedAt := sentAt.Add(2 * time.Hour)
	replied := model.ContactReplied
	contact, err = svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{Status: &replied, RepliedAt: &repliedAt})
	require.NoError(t, err)
	require.NotNil(t, contact.ResponseHours)
	assert.InDelta(t, 2.0, *contact.ResponseHours, 0.01)

	// 再次切换回 replied 不重复计数
	noResponse := model.ContactNoResponse
	_, err = svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{Status: &noResponse})
	require.NoError(t, err)
	_, err = svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{Status: &replied})
	require.NoError(t, err)

	tpl, err := templates.GetTemplate(f.ctx, f.user.ID, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tpl.UseCount)
	assert.Equal(t, 1, tpl.SuccessCount)
	assert.Equal(t, 100.0, tpl.SuccessRate)

	got, err = NewKOLService(f.kols, f.tags, f.tweets).GetKOL(f.ctx, f.user.ID, kol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KOLStatusReplied, got.Status)

	page, err := svc.ListContacts(f.ctx, f.user.ID, &dto.ContactQueryDTO{KOLID: &kol.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.DeleteContact(f.ctx, f.user.ID, contact.ID))
	assert.ErrorIs(t, svc.DeleteContact(f.ctx, f.user.ID, contact.ID), ErrContactNotFound)
}

func TestUpdateContactRepliedAtRequiresReplied(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.contacts, f.kols, f.templates)
	templates := NewTemplateService(f.templates, f.kols, f.users)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "early_reply")
	template := testutil.CreateTemplate(t, f.db, f.user.ID)

	contact, err := svc.CreateContact(f.ctx, f.user.ID, &dto.CreateContactDTO{
		KOLID:          kol.ID,
		TemplateID:     &template.ID,
		MessageContent: "gm",
	})
	require.NoError(t, err)

	// 状态仍为 sent 时单独写 replied_at 被拒绝
	repliedAt := time.Now()
	_, err = svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{RepliedAt: &repliedAt})
	var vErr *util.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "RepliedAt", vErr.Field)

	noResponse := model.ContactNoResponse
	_, err = svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{Status: &noResponse, RepliedAt: &repliedAt})
	require.ErrorAs(t, err, &vErr)

	replied := model.ContactReplied
	updated, err := svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{Status: &replied})
	require.NoError(t, err)
	assert.Equal(t, model.ContactReplied, updated.Status)
	require.NotNil(t, updated.RepliedAt)

	tpl, err := templates.GetTemplate(f.ctx, f.user.ID, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tpl.UseCount)
	assert.Equal(t, 1, tpl.SuccessCount)

	got, err := NewKOLService(f.kols, f.tags, f.tweets).GetKOL(f.ctx, f.user.ID, kol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KOLStatusReplied, got.Status)

	// 已回复的记录可以修正回复时间，不再重复计数
	corrected := repliedAt.Add(-time.Hour)
	_, err = svc.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{RepliedAt: &corrected})
	require.NoError(t, err)
	tpl, err = templates.GetTemplate(f.ctx, f.user.ID, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tpl.SuccessCount)
}

func TestCreateContactOwnership(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.contacts, f.kols, f.templates)
	other := testutil.CreateUser(t, f.db)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "mine")
	foreignKOL := testutil.CreateKOL(t, f.db, other.ID, "theirs")
	foreignTemplate := testutil.CreateTemplate(t, f.db, other.ID)

	_, err := svc.CreateContact(f.ctx, f.user.ID, &dto.CreateContactDTO{KOLID: foreignKOL.ID, MessageContent: "hi"})
	assert.ErrorIs(t, err, ErrKOLNotFound)

	_, err = svc.CreateContact(f.ctx, f.user.ID, &dto.CreateContactDTO{KOLID: kol.ID, TemplateID: &foreignTemplate.ID, MessageContent: "hi"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestAnalyticsOverview(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.analytics, f.templates)

	statuses := []model.KOLStatus{
		model.KOLStatusNew,
		model.KOLStatusContacted,
		model.KOLStatusReplied,
		model.KOLStatusCooperating,
		model.KOLStatusRejected,
	}
	for i, st := range statuses {
		kol := testutil.CreateKOL(t, f.db, f.user.ID, "kol"+string(rune('a'+i)))
		require.NoError(t, f.db.Model(kol).Update("status", st).Error)
	}

	overview, err := svc.Overview(f.ctx, f.user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), overview.TotalKOLs)
	assert.Equal(t, int64(5), overview.NewKOLsThisWeek)
	assert.Equal(t, int64(1), overview.ContactedThisWeek)
	assert.Equal(t, 50.0, overview.OverallResponseRate)
	assert.Equal(t, 66.7, overview.WeeklyResponseRate)
	assert.Equal(t, int64(1), overview.ActivePartnerships)
	assert.Equal(t, int64(1), overview.PendingFollowups)

	// 空库时比例为 0
	empty, err := svc.Overview(f.ctx, f.user.ID+100, 7)
	require.NoError(t, err)
	assert.Zero(t, empty.OverallResponseRate)
	assert.Zero(t, empty.WeeklyResponseRate)
}

func TestAnalyticsDistributions(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.analytics, f.templates)

	big := testutil.CreateKOL(t, f.db, f.user.ID, "big")
	require.NoError(t, f.db.Model(big).Updates(map[string]any{"follower_count": 600000, "quality_score": 90}).Error)
	testutil.CreateKOL(t, f.db, f.user.ID, "small")

	d, err := svc.Distributions(f.ctx, f.user.ID)
	require.NoError(t, err)

	require.Len(t, d.ByFollowerCount, 6)
	assert.Equal(t, dto.RangeCountDTO{Range: "0-1K", Count: 1}, d.ByFollowerCount[0])
	assert.Equal(t, dto.RangeCountDTO{Range: "500K+", Count: 1}, d.ByFollowerCount[5])

	require.Len(t, d.ByQualityScore, 5)
	assert.Equal(t, int64(1), d.ByQualityScore[0].Count)
	assert.Equal(t, int64(1), d.ByQualityScore[4].Count)

	assert.Len(t, d.ByContentCategory, 4)
	for _, c := range d.ByContentCategory {
		if c.Category == string(model.CategoryUnknown) {
			assert.Equal(t, int64(2), c.Count)
		}
	}
	assert.Len(t, d.ByStatus, 7)
	assert.Equal(t, dto.StatusCountDTO{Status: "new", Count: 2}, d.ByStatus[0])
}

func TestTemplateEffectiveness(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.analytics, f.templates)
	contacts := NewContactService(f.contacts, f.kols, f.templates)
	kol := testutil.CreateKOL(t, f.db, f.user.ID, "eff")
	unused := testutil.CreateTemplate(t, f.db, f.user.ID)
	used := testutil.CreateTemplate(t, f.db, f.user.ID)

	sentAt := time.Now().Add(-5 * time.Hour)
	contact, err := contacts.CreateContact(f.ctx, f.user.ID, &dto.CreateContactDTO{KOLID: kol.ID, TemplateID: &used.ID, MessageContent: "hi", SentAt: &sentAt})
	require.NoError(t, err)
	_, err = contacts.CreateContact(f.ctx, f.user.ID, &dto.CreateContactDTO{KOLID: kol.ID, TemplateID: &used.ID, MessageContent: "again"})
	require.NoError(t, err)

	replied := model.ContactReplied
	repliedAt := sentAt.Add(3 * time.Hour)
	_, err = contacts.UpdateContact(f.ctx, f.user.ID, contact.ID, &dto.UpdateContactDTO{Status: &replied, RepliedAt: &repliedAt})
	require.NoError(t, err)

	items, err := svc.TemplateEffectiveness(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, used.ID, items[0].ID)
	assert.Equal(t, 2, items[0].UseCount)
	assert.Equal(t, 1, items[0].ResponseCount)
	assert.Equal(t, 50.0, items[0].ResponseRate)
	require.NotNil(t, items[0].AvgResponseTime)
	assert.Equal(t, 3.0, *items[0].AvgResponseTime)

	assert.Equal(t, unused.ID, items[1].ID)
	assert.Zero(t, items[1].ResponseRate)
	assert.Nil(t, items[1].AvgResponseTime)
}

func TestTimeline(t *testing.T) {
	f := newFixture(t)
	impl := NewAnalyticsService(f.analytics, f.templates).(*AnalyticsServiceImpl)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return now }

	kol := testutil.CreateKOL(t, f.db, f.user.ID, "timeline")
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Local()
	twoDaysAgo := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC).Local()
	outside := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Local()

	testutil.CreateContact(t, f.db, f.user.ID, kol.ID, nil, today)
	c := testutil.CreateContact(t, f.db, f.user.ID, kol.ID, nil, twoDaysAgo)
	require.NoError(t, f.db.Model(c).Update("replied_at", today).Error)
	testutil.CreateContact(t, f.db, f.user.ID, kol.ID, nil, outside)

	points, err := impl.Timeline(f.ctx, f.user.ID, 0)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "2026-03-04", points[0].Date)
	assert.Equal(t, "2026-03-10", points[6].Date)

	assert.Equal(t, 1, points[4].ContactsCount)
	assert.Equal(t, 0, points[4].ResponsesCount)
	assert.Equal(t, 1, points[6].ContactsCount)
	assert.Equal(t, 1, points[6].ResponsesCount)

	total := 0
	for _, p := range points {
		total += p.ContactsCount
	}
	assert.Equal(t, 2, total)
}
