package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiSvc          service.AIService
	translationSvc service.TranslationService
}

func NewAIHandler(aiSvc service.AIService, translationSvc service.TranslationService) *AIHandler {
	return &AIHandler{
		aiSvc:          aiSvc,
		translationSvc: translationSvc,
	}
}

func (s *AIHandler) Rewrite(c *gin.Context) {
	var rewriteDTO dto.RewriteDTO
	if !bindJSON(c, &rewriteDTO) {
		return
	}
	result, err := s.aiSvc.Rewrite(c.Request.Context(), &rewriteDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AIHandler) BatchRewrite(c *gin.Context) {
	var batchDTO dto.BatchRewriteDTO
	if !bindJSON(c, &batchDTO) {
		return
	}
	result, err := s.aiSvc.BatchRewrite(c.Request.Context(), &batchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AIHandler) RewriteTemplate(c *gin.Context) {
	var templateDTO dto.RewriteTemplateDTO
	if !bindJSON(c, &templateDTO) {
		return
	}
	result, err := s.aiSvc.RewriteTemplate(c.Request.Context(), c.GetUint64("user_id"), &templateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// HealthCheck 供应商不可用时仍返回 200，由 healthy 字段表示状态
func (s *AIHandler) HealthCheck(c *gin.Context) {
	response.Success(c, s.aiSvc.HealthCheck(c.Request.Context()))
}

func (s *AIHandler) Translate(c *gin.Context) {
	var translateDTO dto.TranslateDTO
	if !bindJSON(c, &translateDTO) {
		return
	}
	result, err := s.translationSvc.Translate(c.Request.Context(), &translateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AIHandler) BatchTranslate(c *gin.Context) {
	var batchDTO dto.BatchTranslateDTO
	if !bindJSON(c, &batchDTO) {
		return
	}
	result, err := s.translationSvc.BatchTranslate(c.Request.Context(), &batchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AIHandler) DetectLanguage(c *gin.Context) {
	var detectDTO dto.DetectLanguageDTO
	if !bindJSON(c, &detectDTO) {
		return
	}
	result, err := s.translationSvc.DetectLanguage(c.Request.Context(), &detectDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AIHandler) TranslationStatus(c *gin.Context) {
	response.Success(c, s.translationSvc.Status())
}
