package wire

import (
	"KolBD/internal/api/config"
	"KolBD/internal/api/middleware"
	"KolBD/internal/testutil"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:                  "KOL-BD-Tool",
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 60,
		AllowedOrigins:           "http://localhost:5173",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := BuildApplication(testutil.NewTestDB(t), cfg, nil)
	require.NoError(t, err)
	return &testApp{t: t, router: app.Router}
}

func (a *testApp) do(method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, *envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	env := &envelope{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), env)
	}
	return w, env
}

// register 注册并返回 Bearer 头
func (a *testApp) register(email string) map[string]string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     email,
		"password":  "Password1",
		"full_name": "Test User",
	}, nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(a.t, result.Token)
	assert.Equal(a.t, "bearer", result.TokenType)
	return map[string]string{"Authorization": "Bearer " + result.Token}
}

func TestRootAndHealth(t *testing.T) {
	app := newTestApp(t, testConfig())

	w, _ := app.do(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var root map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "Welcome to KOL-BD-Tool API", root["message"])
	assert.Equal(t, "healthy", root["status"])
	assert.Equal(t, "/docs", root["docs"])
	assert.NotEmpty(t, w.Header().Get(middleware.TraceHeader))

	w, _ = app.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	testutil.StartRedis(t)
	app := newTestApp(t, testConfig())

	w, _ := app.do(http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	auth := app.register("alice@example.com")

	w, env := app.do(http.MethodGet, "/api/v1/auth/me", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "member", me.Role)

	// 重复注册
	w, _ = app.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     "alice@example.com",
		"password":  "Password1",
		"full_name": "Alice Again",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/auth/logout", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(http.MethodGet, "/api/v1/auth/me", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t, testConfig())

	w, env := app.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     "not-an-email",
		"password":  "short",
		"full_name": "X",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.Code)

	auth := app.register("bob@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/kols", bytes.NewBufferString(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth["Authorization"])
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w, _ = app.do(http.MethodGet, "/api/v1/kols/abc", nil, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = app.do(http.MethodGet, "/api/v1/kols/999", nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKOLRoutes(t *testing.T) {
	app := newTestApp(t, testConfig())
	auth := app.register("carol@example.com")

	w, env := app.do(http.MethodPost, "/api/v1/kols", map[string]any{
		"username":       "crypto_carol",
		"display_name":   "Carol",
		"follower_count": 12000,
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var kol struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &kol))
	assert.Equal(t, "new", kol.Status)

	w, _ = app.do(http.MethodPost, "/api/v1/kols", map[string]any{
		"username":     "crypto_carol",
		"display_name": "Carol",
	}, auth)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = app.do(http.MethodGet, "/api/v1/kols?page=1&limit=10", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	// 其他用户看不到
	other := app.register("dave@example.com")
	w, env = app.do(http.MethodGet, "/api/v1/kols", nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(0), page.Total)

	w, _ = app.do(http.MethodGet, "/api/v1/analytics/overview?days=400", nil, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/analytics/overview", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	app := newTestApp(t, testConfig())
	auth := app.register("erin@example.com")

	w, _ := app.do(http.MethodGet, "/api/v1/users", nil, auth)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAIWithoutProvider(t *testing.T) {
	app := newTestApp(t, testConfig())
	auth := app.register("frank@example.com")

	w, env := app.do(http.MethodGet, "/api/v1/ai/health", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Healthy bool `json:"healthy"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.False(t, health.Healthy)

	w, _ = app.do(http.MethodPost, "/api/v1/ai/rewrite", map[string]string{"text": "hello"}, auth)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/translation/translate", map[string]string{
		"text":            "hello",
		"target_language": "zh",
	}, auth)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/ai/rewrite/batch", map[string]any{"texts": []string{"a", "b"}}, auth)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// 校验先于供应商检查
	w, _ = app.do(http.MethodPost, "/api/v1/ai/rewrite/batch", map[string]any{"texts": []string{}}, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = "x"
	}
	w, _ = app.do(http.MethodPost, "/api/v1/ai/rewrite/batch", map[string]any{"texts": tooMany}, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = app.do(http.MethodGet, "/api/v1/translation/status", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Available bool   `json:"available"`
		Provider  string `json:"provider"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Available)
	assert.Equal(t, "none", status.Provider)
}

func TestExtensionTokenAuth(t *testing.T) {
	testutil.StartRedis(t)
	app := newTestApp(t, testConfig())
	auth := app.register("grace@example.com")

	w, _ := app.do(http.MethodGet, "/api/v1/extension/token", nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := app.do(http.MethodPost, "/api/v1/extension/token/generate", nil, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var token struct {
		Token    string `json:"token"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &token))
	assert.False(t, token.IsActive)

	ext := map[string]string{middleware.ExtensionTokenHeader: token.Token}

	// 未激活
	w, _ = app.do(http.MethodGet, "/api/v1/kols", nil, ext)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/extension/token/activate", map[string]int{"hours": 2}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = app.do(http.MethodGet, "/api/v1/kols", nil, ext)
	assert.Equal(t, http.StatusOK, w.Code)

	// 插件 token 只能访问 KOL 接口
	w, _ = app.do(http.MethodGet, "/api/v1/tags", nil, ext)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtensionWithoutRedis(t *testing.T) {
	app := newTestApp(t, testConfig())
	auth := app.register("heidi@example.com")

	w, _ := app.do(http.MethodPost, "/api/v1/extension/token/generate", nil, auth)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = app.do(http.MethodGet, "/api/v1/kols", nil, map[string]string{middleware.ExtensionTokenHeader: "whatever"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/kols", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limit = config.LimitConfig{WindowMs: 60000, MaxRequests: 2}
	app := newTestApp(t, cfg)

	body := map[string]string{"email": "nobody@example.com", "password": "x"}
	for i := 0; i < 2; i++ {
		w, _ := app.do(http.MethodPost, "/api/v1/auth/login", body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, env := app.do(http.MethodPost, "/api/v1/auth/login", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, http.StatusTooManyRequests, env.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 根路由不受限
	w, _ = app.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
