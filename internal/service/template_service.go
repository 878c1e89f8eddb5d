package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

const (
	defaultTemplateLimit    = 20
	defaultTemplateLanguage = "en"
)

type TemplateService interface {
	ListTemplates(ctx context.Context, userID uint64, query *dto.TemplateQueryDTO) (*dto.PageDTO[*dto.TemplateDTO], error)
	GetTemplate(ctx context.Context, userID, id uint64) (*dto.TemplateDTO, error)
	CreateTemplate(ctx context.Context, userID uint64, dto *dto.CreateTemplateDTO) (*dto.TemplateDTO, error)
	UpdateTemplate(ctx context.Context, userID, id uint64, dto *dto.UpdateTemplateDTO) (*dto.TemplateDTO, error)
	DeleteTemplate(ctx context.Context, userID, id uint64) error
	PreviewTemplate(ctx context.Context, userID, id uint64, dto *dto.PreviewTemplateDTO) (*dto.TemplatePreviewDTO, error)
}

type TemplateServiceImpl struct {
	templateRepo repository.TemplateRepo
	kolRepo      repository.KOLRepo
	userRepo     repository.UserRepo
	now          func() time.Time
}

func NewTemplateService(templateRepo repository.TemplateRepo, kolRepo repository.KOLRepo, userRepo repository.UserRepo) TemplateService {
	return &TemplateServiceImpl{
		templateRepo: templateRepo,
		kolRepo:      kolRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context, userID uint64, query *dto.TemplateQueryDTO) (*dto.PageDTO[*dto.TemplateDTO], error) {
	query.Normalize(defaultTemplateLimit)
	filter := &repository.TemplateFilter{
		Page:        repository.Page{Page: query.Page, Limit: query.Limit},
		Search:      strings.TrimSpace(query.Search),
		Category:    query.Category,
		Language:    query.Language,
		AIGenerated: query.AIGenerated,
	}
	templates, total, err := s.templateRepo.ListTemplates(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.TemplateDTO, 0, len(templates))
	for _, t := range templates {
		templateDTO, err := toTemplateDTO(t)
		if err != nil {
			return nil, err
		}
		items = append(items, templateDTO)
	}
	return dto.NewPage(items, total, query.Page, query.Limit), nil
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, userID, id uint64) (*dto.TemplateDTO, error) {
	template, err := s.getTemplate(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toTemplateDTO(template)
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, userID uint64, createDTO *dto.CreateTemplateDTO) (*dto.TemplateDTO, error) {
	template := &model.Template{}
	if err := copier.Copy(template, createDTO); err != nil {
		return nil, err
	}
	template.UserID = userID
	template.Name = strings.TrimSpace(template.Name)
	if template.Language == "" {
		template.Language = defaultTemplateLanguage
	}
	if err := s.templateRepo.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return toTemplateDTO(template)
}

func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateTemplateDTO) (*dto.TemplateDTO, error) {
	template, err := s.getTemplate(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if updateDTO.Name != nil {
		updates["name"] = strings.TrimSpace(*updateDTO.Name)
	}
	if updateDTO.Category != nil {
		updates["category"] = *updateDTO.Category
	}
	if updateDTO.Content != nil {
		updates["content"] = *updateDTO.Content
	}
	if updateDTO.Language != nil {
		updates["language"] = *updateDTO.Language
	}
	if updateDTO.AIGenerated != nil {
		updates["ai_generated"] = *updateDTO.AIGenerated
	}
	if err = s.templateRepo.UpdateTemplate(ctx, template, updates); err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, userID, id)
}

func (s *TemplateServiceImpl) DeleteTemplate(ctx context.Context, userID, id uint64) error {
	affected, err := s.templateRepo.DeleteTemplate(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// PreviewTemplate 用当前用户与可选 KOL 的信息替换变量，未知变量保留原样
func (s *TemplateServiceImpl) PreviewTemplate(ctx context.Context, userID, id uint64, previewDTO *dto.PreviewTemplateDTO) (*dto.TemplatePreviewDTO, error) {
	template, err := s.getTemplate(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := s.now()
	values := map[string]string{
		"my_name":       user.FullName,
		"my_email":      user.Email,
		"exchange_name": consts.ExchangeName,
		"today":         now.Format("2006-01-02"),
		"today_cn":      now.Format("2006年1月2日"),
	}

	if previewDTO != nil && previewDTO.KOLID != nil {
		kol, err := s.kolRepo.GetKOLById(ctx, userID, *previewDTO.KOLID)
		if err != nil {
			return nil, err
		}
		if kol == nil {
			return nil, ErrKOLNotFound
		}
		values["username"] = kol.Username
		values["display_name"] = kol.DisplayName
		values["follower_count"] = strconv.Itoa(kol.FollowerCount)
		values["bio"] = ""
		if kol.Bio != nil {
			values["bio"] = *kol.Bio
		}
		values["profile_url"] = consts.TwitterProfileURL + kol.Username
	}

	return &dto.TemplatePreviewDTO{
		OriginalContent: template.Content,
		PreviewContent:  util.ReplaceVariables(template.Content, values),
		Variables:       util.ExtractVariables(template.Content),
	}, nil
}

func (s *TemplateServiceImpl) getTemplate(ctx context.Context, userID, id uint64) (*model.Template, error) {
	template, err := s.templateRepo.GetTemplateById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

func toTemplateDTO(template *model.Template) (*dto.TemplateDTO, error) {
	templateDTO := &dto.TemplateDTO{}
	if err := copier.Copy(templateDTO, template); err != nil {
		return nil, err
	}
	templateDTO.SuccessRate = template.SuccessRate()
	templateDTO.Variables = util.ExtractVariables(template.Content)
	return templateDTO, nil
}
