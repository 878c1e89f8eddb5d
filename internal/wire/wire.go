package wire

import (
	"KolBD/internal/api"
	"KolBD/internal/api/config"
	"KolBD/internal/api/handler"
	"KolBD/internal/pkg/llm"
	"KolBD/internal/pkg/minio"
	"KolBD/internal/pkg/security"
	"KolBD/internal/repository"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	UserService service.UserService
}

// BuildApplication llmClient 为 nil 时 AI 与翻译接口返回 503
func BuildApplication(db *gorm.DB, cfg *config.Config, llmClient llm.Client) (*ApplicationContainer, error) {
	tokens, err := security.NewTokenManager(cfg)
	if err != nil {
		return nil, err
	}
	storage := minio.Store{}

	userRepo := repository.NewUserRepo(db)
	kolRepo := repository.NewKOLRepo(db)
	tagRepo := repository.NewTagRepository(db)
	tweetRepo := repository.NewTweetRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	contactRepo := repository.NewContactLogRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)

	userService := service.NewUserService(userRepo, tokens, storage)
	adminUserService := service.NewAdminUserService(userRepo, storage)
	kolService := service.NewKOLService(kolRepo, tagRepo, tweetRepo)
	tagService := service.NewTagService(tagRepo)
	templateService := service.NewTemplateService(templateRepo, kolRepo, userRepo)
	contactService := service.NewContactService(contactRepo, kolRepo, templateRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, templateRepo)
	aiService := service.NewAIService(llmClient, kolRepo)
	translationService := service.NewTranslationService(llmClient)
	extensionService := service.NewExtensionService()

	handlers := &api.HandlersGroup{
		RootHandler:      handler.NewRootHandler(cfg.AppName),
		UserHandler:      handler.NewUserHandler(userService, adminUserService),
		MediaHandler:     handler.NewMediaHandler(userService),
		KOLHandler:       handler.NewKOLHandler(kolService),
		TagHandler:       handler.NewTagHandler(tagService),
		TemplateHandler:  handler.NewTemplateHandler(templateService),
		ContactHandler:   handler.NewContactHandler(contactService),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService),
		AIHandler:        handler.NewAIHandler(aiService, translationService),
		ExtensionHandler: handler.NewExtensionHandler(extensionService),
	}

	router := api.SetupRouter(cfg, handlers, &api.Guards{
		Tokens:    tokens,
		Extension: extensionService,
	})

	return &ApplicationContainer{
		Router:      router,
		DB:          db,
		UserService: userService,
	}, nil
}
