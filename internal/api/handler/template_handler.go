package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateSvc service.TemplateService
}

func NewTemplateHandler(templateSvc service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

func (s *TemplateHandler) ListTemplates(c *gin.Context) {
	var query dto.TemplateQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.templateSvc.ListTemplates(c.Request.Context(), c.GetUint64("user_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *TemplateHandler) GetTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	template, err := s.templateSvc.GetTemplate(c.Request.Context(), c.GetUint64("user_id"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, template)
}

func (s *TemplateHandler) CreateTemplate(c *gin.Context) {
	var createDTO dto.CreateTemplateDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	template, err := s.templateSvc.CreateTemplate(c.Request.Context(), c.GetUint64("user_id"), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, template)
}

func (s *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var updateDTO dto.UpdateTemplateDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	template, err := s.templateSvc.UpdateTemplate(c.Request.Context(), c.GetUint64("user_id"), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, template)
}

func (s *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.templateSvc.DeleteTemplate(c.Request.Context(), c.GetUint64("user_id"), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// PreviewTemplate 请求体可为空
func (s *TemplateHandler) PreviewTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var previewDTO dto.PreviewTemplateDTO
	if c.Request.ContentLength > 0 && !bindJSON(c, &previewDTO) {
		return
	}
	preview, err := s.templateSvc.PreviewTemplate(c.Request.Context(), c.GetUint64("user_id"), id, &previewDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, preview)
}
