package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/redis"
	"KolBD/internal/pkg/util"
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	extensionTokenBytes  = 32
	defaultActivateHours = 2
)

type ExtensionService interface {
	GetToken(ctx context.Context, userID uint64) (*dto.ExtensionTokenDTO, error)
	GenerateToken(ctx context.Context, userID uint64) (*dto.ExtensionTokenDTO, error)
	ActivateToken(ctx context.Context, userID uint64, dto *dto.ActivateTokenDTO) (*dto.ExtensionTokenDTO, error)
	Authenticate(ctx context.Context, token string) (uint64, error)
}

// ExtensionServiceImpl 浏览器插件 token 存于 redis：
// extension:user:<uid> 为 {token, is_active, expires_at} 哈希，
// extension:token:<token> 反查 uid，激活后随 token 一起过期
type ExtensionServiceImpl struct {
	now func() time.Time
}

func NewExtensionService() ExtensionService {
	return &ExtensionServiceImpl{now: time.Now}
}

func (s *ExtensionServiceImpl) GetToken(ctx context.Context, userID uint64) (*dto.ExtensionTokenDTO, error) {
	tokenDTO, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tokenDTO == nil {
		return nil, ErrExtensionTokenNotFound
	}
	return tokenDTO, nil
}

// GenerateToken 生成新 token 并作废旧 token，新 token 需激活后才能使用
func (s *ExtensionServiceImpl) GenerateToken(ctx context.Context, userID uint64) (*dto.ExtensionTokenDTO, error) {
	old, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateToken(extensionTokenBytes)
	if err != nil {
		return nil, err
	}
	if old != nil {
		if err = redis.DeleteKey(ctx, consts.ExtensionTokenKey+old.Token); err != nil {
			return nil, err
		}
	}

	err = redis.SetHash(ctx, userKey(userID), map[string]string{
		"token":      token,
		"is_active":  "0",
		"expires_at": "",
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	if err = redis.SetWithExpiration(ctx, consts.ExtensionTokenKey+token, strconv.FormatUint(userID, 10), 0); err != nil {
		return nil, s.mapErr(err)
	}
	return &dto.ExtensionTokenDTO{Token: token}, nil
}

func (s *ExtensionServiceImpl) ActivateToken(ctx context.Context, userID uint64, activateDTO *dto.ActivateTokenDTO) (*dto.ExtensionTokenDTO, error) {
	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrExtensionTokenNotFound
	}

	hours := defaultActivateHours
	if activateDTO != nil && activateDTO.Hours != nil {
		hours = *activateDTO.Hours
	}
	ttl := time.Duration(hours) * time.Hour
	expiresAt := s.now().Add(ttl).UTC()

	err = redis.SetHash(ctx, userKey(userID), map[string]string{
		"token":      current.Token,
		"is_active":  "1",
		"expires_at": expiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	if err = redis.SetWithExpiration(ctx, consts.ExtensionTokenKey+current.Token, strconv.FormatUint(userID, 10), ttl); err != nil {
		return nil, s.mapErr(err)
	}

	return &dto.ExtensionTokenDTO{
		Token:     current.Token,
		IsActive:  true,
		ExpiresAt: &expiresAt,
		Hours:     hours,
	}, nil
}

// Authenticate 只接受已激活且未过期的 token
func (s *ExtensionServiceImpl) Authenticate(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, UnauthorizedError
	}
	value, err := redis.GetValue(ctx, consts.ExtensionTokenKey+token)
	if err != nil {
		return 0, s.mapErr(err)
	}
	if value == "" {
		return 0, UnauthorizedError
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, UnauthorizedError
	}

	current, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	if current == nil || current.Token != token || !current.IsActive || current.IsExpired {
		return 0, UnauthorizedError
	}
	return userID, nil
}

func (s *ExtensionServiceImpl) load(ctx context.Context, userID uint64) (*dto.ExtensionTokenDTO, error) {
	fields, err := redis.GetHash(ctx, userKey(userID))
	if err != nil {
		return nil, s.mapErr(err)
	}
	if fields["token"] == "" {
		return nil, nil
	}

	tokenDTO := &dto.ExtensionTokenDTO{
		Token:    fields["token"],
		IsActive: fields["is_active"] == "1",
	}
	if raw := fields["expires_at"]; raw != "" {
		expiresAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		tokenDTO.ExpiresAt = &expiresAt
		tokenDTO.IsExpired = expiresAt.Before(s.now())
	}
	return tokenDTO, nil
}

func (s *ExtensionServiceImpl) mapErr(err error) error {
	if errors.Is(err, redis.ErrDisabled) {
		return ErrRedisDisabled
	}
	return err
}

func userKey(userID uint64) string {
	return consts.ExtensionUserKey + strconv.FormatUint(userID, 10)
}
