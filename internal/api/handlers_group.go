package api

import (
	"KolBD/internal/api/handler"
	"KolBD/internal/pkg/security"
	"KolBD/internal/service"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	RootHandler      *handler.RootHandler
	UserHandler      *handler.UserHandler
	MediaHandler     *handler.MediaHandler
	KOLHandler       *handler.KOLHandler
	TagHandler       *handler.TagHandler
	TemplateHandler  *handler.TemplateHandler
	ContactHandler   *handler.ContactHandler
	AnalyticsHandler *handler.AnalyticsHandler
	AIHandler        *handler.AIHandler
	ExtensionHandler *handler.ExtensionHandler
}

// Guards 鉴权中间件依赖
type Guards struct {
	Tokens    *security.TokenManager
	Extension service.ExtensionService
}
