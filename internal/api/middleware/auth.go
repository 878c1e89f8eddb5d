package middleware

import (
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/logger"
	"KolBD/internal/pkg/redis"
	"KolBD/internal/pkg/response"
	"KolBD/internal/pkg/security"
	"errors"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			return
		}
		if !authenticateJWT(c, tokens, tokenString) {
			return
		}
		c.Next()
	}
}

// authenticateJWT 校验失败时已写入响应
func authenticateJWT(c *gin.Context, tokens *security.TokenManager, tokenString string) bool {
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
		return false
	}

	// 未配置 redis 时不支持服务端注销
	value, err := redis.GetValue(c.Request.Context(), consts.TokenBlacklistKey+signature)
	if err != nil && !errors.Is(err, redis.ErrDisabled) {
		log.ErrorContext(c.Request.Context(), "check token blacklist failed", "err", err)
		response.Fail(c, response.InternalServerError, "未知错误")
		return false
	}
	if value != "" {
		response.Fail(c, response.Unauthorized, "Token 无效或已过期")
		return false
	}

	claims, err := tokens.ValidateToken(tokenString)
	if err != nil {
		response.Fail(c, response.Unauthorized, "Token 无效或已过期")
		return false
	}

	setIdentity(c, claims.UserID, claims.Role)
	c.Set("token", tokenString)
	return true
}

func setIdentity(c *gin.Context, userID uint64, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}
