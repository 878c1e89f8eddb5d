package api

import (
	"KolBD/internal/api/config"
	"KolBD/internal/api/middleware"
	"KolBD/internal/model"
	"KolBD/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, group *HandlersGroup, guards *Guards) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r)
	r.Use(middleware.CORSMiddleware(cfg.OriginsList()))

	r.GET("/", group.RootHandler.Root)
	r.GET("/health", group.RootHandler.Health)

	auth := middleware.AuthMiddleware(guards.Tokens)

	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.AuditMiddleware(), middleware.RateLimitMiddleware(cfg.Limit))
	{
		authGroup := apiGroup.Group("/auth")
		{
			// 无需登录即可访问的接口
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)

			loginGroup := authGroup.Group("")
			loginGroup.Use(auth)
			{
				loginGroup.GET("/me", group.UserHandler.GetUserInfo)
				loginGroup.PUT("/profile", group.UserHandler.UpdateProfile)
				loginGroup.PUT("/password", group.UserHandler.ChangePassword)
				loginGroup.POST("/logout", group.UserHandler.Logout)
				loginGroup.POST("/avatar", group.MediaHandler.UploadAvatar)
			}
		}

		userGroup := apiGroup.Group("/users")
		userGroup.Use(auth)
		{
			// 本人可查看与修改自己，列表与删除需要 admin
			userGroup.GET("/:id", group.UserHandler.GetUser)
			userGroup.PUT("/:id", group.UserHandler.UpdateUser)

			adminGroup := userGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(string(model.RoleAdmin)))
			{
				adminGroup.GET("", group.UserHandler.ListUsers)
				adminGroup.DELETE("/:id", group.UserHandler.DeleteUser)
			}
		}

		kolGroup := apiGroup.Group("/kols")
		kolGroup.Use(middleware.AuthOrExtensionMiddleware(guards.Tokens, guards.Extension))
		{
			kolGroup.GET("", group.KOLHandler.ListKOLs)
			kolGroup.POST("", group.KOLHandler.CreateKOL)
			kolGroup.POST("/batch", group.KOLHandler.BatchImport)
			kolGroup.GET("/:id", group.KOLHandler.GetKOL)
			kolGroup.PUT("/:id", group.KOLHandler.UpdateKOL)
			kolGroup.DELETE("/:id", group.KOLHandler.DeleteKOL)
			kolGroup.GET("/:id/history", group.KOLHandler.ListHistory)
			kolGroup.POST("/:id/tags/:tag_id", group.KOLHandler.AttachTag)
			kolGroup.DELETE("/:id/tags/:tag_id", group.KOLHandler.DetachTag)
			kolGroup.GET("/:id/tweets", group.KOLHandler.ListTweets)
			kolGroup.POST("/:id/tweets", group.KOLHandler.CreateTweet)
		}

		tagGroup := apiGroup.Group("/tags")
		tagGroup.Use(auth)
		{
			tagGroup.GET("", group.TagHandler.ListTags)
			tagGroup.POST("", group.TagHandler.CreateTag)
			tagGroup.GET("/:id", group.TagHandler.GetTag)
			tagGroup.PUT("/:id", group.TagHandler.UpdateTag)
			tagGroup.DELETE("/:id", group.TagHandler.DeleteTag)
		}

		templateGroup := apiGroup.Group("/templates")
		templateGroup.Use(auth)
		{
			templateGroup.GET("", group.TemplateHandler.ListTemplates)
			templateGroup.POST("", group.TemplateHandler.CreateTemplate)
			templateGroup.GET("/:id", group.TemplateHandler.GetTemplate)
			templateGroup.PUT("/:id", group.TemplateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", group.TemplateHandler.DeleteTemplate)
			templateGroup.POST("/:id/preview", group.TemplateHandler.PreviewTemplate)
		}

		contactGroup := apiGroup.Group("/contacts")
		contactGroup.Use(auth)
		{
			contactGroup.GET("", group.ContactHandler.ListContacts)
			contactGroup.POST("", group.ContactHandler.CreateContact)
			contactGroup.GET("/:id", group.ContactHandler.GetContact)
			contactGroup.PUT("/:id", group.ContactHandler.UpdateContact)
			contactGroup.DELETE("/:id", group.ContactHandler.DeleteContact)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(auth)
		{
			analyticsGroup.GET("/overview", group.AnalyticsHandler.Overview)
			analyticsGroup.GET("/distributions", group.AnalyticsHandler.Distributions)
			analyticsGroup.GET("/templates", group.AnalyticsHandler.TemplateEffectiveness)
			analyticsGroup.GET("/timeline", group.AnalyticsHandler.Timeline)
		}

		aiGroup := apiGroup.Group("/ai")
		aiGroup.Use(auth)
		{
			aiGroup.POST("/rewrite", group.AIHandler.Rewrite)
			aiGroup.POST("/rewrite/batch", group.AIHandler.BatchRewrite)
			aiGroup.POST("/rewrite/template", group.AIHandler.RewriteTemplate)
			aiGroup.GET("/health", group.AIHandler.HealthCheck)
		}

		translationGroup := apiGroup.Group("/translation")
		translationGroup.Use(auth)
		{
			translationGroup.POST("/translate", group.AIHandler.Translate)
			translationGroup.POST("/batch", group.AIHandler.BatchTranslate)
			translationGroup.POST("/detect", group.AIHandler.DetectLanguage)
			translationGroup.GET("/status", group.AIHandler.TranslationStatus)
		}

		extensionGroup := apiGroup.Group("/extension")
		extensionGroup.Use(auth)
		{
			extensionGroup.GET("/token", group.ExtensionHandler.GetToken)
			extensionGroup.POST("/token/generate", group.ExtensionHandler.GenerateToken)
			extensionGroup.POST("/token/activate", group.ExtensionHandler.ActivateToken)
		}
	}

	return r
}
