package middleware

import (
	"KolBD/internal/model"
	"KolBD/internal/pkg/response"
	"KolBD/internal/pkg/security"
	"KolBD/internal/service"
	"errors"

	"github.com/gin-gonic/gin"
)

const ExtensionTokenHeader = "X-Extension-Token"

// AuthOrExtensionMiddleware 优先使用 Bearer JWT，缺失时接受已激活的插件 token，身份为 member
func AuthOrExtensionMiddleware(tokens *security.TokenManager, extensionSvc service.ExtensionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if authenticateJWT(c, tokens, tokenString) {
				c.Next()
			}
			return
		}

		extToken := c.GetHeader(ExtensionTokenHeader)
		if extToken == "" {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			return
		}
		userID, err := extensionSvc.Authenticate(c.Request.Context(), extToken)
		if err != nil {
			if errors.Is(err, service.ErrRedisDisabled) {
				response.Error(c, err)
				return
			}
			response.Fail(c, response.Unauthorized, "插件 Token 无效或未激活")
			return
		}

		setIdentity(c, userID, string(model.RoleMember))
		c.Next()
	}
}
