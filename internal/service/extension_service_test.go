package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionTokenLifecycle(t *testing.T) {
	f := newFixture(t)
	mr := testutil.StartRedis(t)
	svc := NewExtensionService().(*ExtensionServiceImpl)

	_, err := svc.GetToken(f.ctx, f.user.ID)
	assert.ErrorIs(t, err, ErrExtensionTokenNotFound)
	_, err = svc.ActivateToken(f.ctx, f.user.ID, nil)
	assert.ErrorIs(t, err, ErrExtensionTokenNotFound)

	generated, err := svc.GenerateToken(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, generated.Token, 64)
	assert.False(t, generated.IsActive)

	// 未激活不可用
	_, err = svc.Authenticate(f.ctx, generated.Token)
	assert.ErrorIs(t, err, UnauthorizedError)

	activated, err := svc.ActivateToken(f.ctx, f.user.ID, &dto.ActivateTokenDTO{})
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.Equal(t, defaultActivateHours, activated.Hours)
	require.NotNil(t, activated.ExpiresAt)
	assert.Equal(t, 2*time.Hour, mr.TTL(consts.ExtensionTokenKey+generated.Token))

	userID, err := svc.Authenticate(f.ctx, generated.Token)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, userID)

	current, err := svc.GetToken(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.Token, current.Token)
	assert.False(t, current.IsExpired)

	// 重新生成后旧 token 失效
	regenerated, err := svc.GenerateToken(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, generated.Token, regenerated.Token)
	assert.False(t, mr.Exists(consts.ExtensionTokenKey+generated.Token))
	_, err = svc.Authenticate(f.ctx, generated.Token)
	assert.ErrorIs(t, err, UnauthorizedError)

	hours := 1
	_, err = svc.ActivateToken(f.ctx, f.user.ID, &dto.ActivateTokenDTO{Hours: &hours})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(f.ctx, regenerated.Token)
	assert.ErrorIs(t, err, UnauthorizedError)
	expired, err := svc.GetToken(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, expired.IsExpired)

	_, err = svc.Authenticate(f.ctx, "")
	assert.ErrorIs(t, err, UnauthorizedError)
	_, err = svc.Authenticate(f.ctx, "unknown")
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestExtensionWithoutRedis(t *testing.T) {
	f := newFixture(t)
	svc := NewExtensionService()

	_, err := svc.GenerateToken(f.ctx, f.user.ID)
	assert.ErrorIs(t, err, ErrRedisDisabled)
	_, err = svc.Authenticate(f.ctx, "anything")
	assert.ErrorIs(t, err, ErrRedisDisabled)
}
