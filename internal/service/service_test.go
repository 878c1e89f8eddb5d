package service

import (
	"KolBD/internal/api/config"
	"KolBD/internal/model"
	"KolBD/internal/pkg/llm"
	"KolBD/internal/pkg/security"
	"KolBD/internal/repository"
	"KolBD/internal/testutil"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	ctx  context.Context
	db   *gorm.DB
	user *model.User

	users     repository.UserRepo
	kols      repository.KOLRepo
	tags      repository.TagRepo
	tweets    repository.TweetRepo
	templates repository.TemplateRepo
	contacts  repository.ContactLogRepo
	analytics repository.AnalyticsRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &fixture{
		ctx:       context.Background(),
		db:        db,
		user:      testutil.CreateUser(t, db),
		users:     repository.NewUserRepo(db),
		kols:      repository.NewKOLRepo(db),
		tags:      repository.NewTagRepository(db),
		tweets:    repository.NewTweetRepo(db),
		templates: repository.NewTemplateRepo(db),
		contacts:  repository.NewContactLogRepo(db),
		analytics: repository.NewAnalyticsRepo(db),
	}
}

func newTokenManager(t *testing.T) *security.TokenManager {
	t.Helper()
	tokens, err := security.NewTokenManager(&config.Config{
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 60,
	})
	require.NoError(t, err)
	return tokens
}

// fakeLLM 按 reply 返回固定内容，记录收到的提示词
type fakeLLM struct {
	mu      sync.Mutex
	reply   func(system, user string) (string, error)
	systems []string
	users   []string
}

func (f *fakeLLM) Chat(_ context.Context, systemPrompt, userPrompt string, _ *llm.ChatOptions) (*llm.Result, error) {
	f.mu.Lock()
	f.systems = append(f.systems, systemPrompt)
	f.users = append(f.users, userPrompt)
	f.mu.Unlock()

	content, err := f.reply(systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	return &llm.Result{
		Content: content,
		Model:   "fake-model",
		Usage:   llm.Usage{Prompt: 10, Completion: 5, Total: 15},
	}, nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Model() string { return "fake-model" }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

var errUpstream = errors.New("upstream down")

// memStorage 内存对象存储
type memStorage struct {
	enabled bool
	objects map[string][]byte
}

func newMemStorage(enabled bool) *memStorage {
	return &memStorage{enabled: enabled, objects: make(map[string][]byte)}
}

func (m *memStorage) Enabled() bool { return m.enabled }

func (m *memStorage) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[objectName] = data
	return objectName, nil
}

func (m *memStorage) Delete(_ context.Context, objectName string) error {
	delete(m.objects, objectName)
	return nil
}

func (m *memStorage) PublicURL(objectName string) string {
	return "http://cdn.test/kol-bd/" + strings.TrimPrefix(objectName, "/")
}
