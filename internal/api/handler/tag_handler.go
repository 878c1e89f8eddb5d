package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagSvc service.TagService
}

func NewTagHandler(tagSvc service.TagService) *TagHandler {
	return &TagHandler{tagSvc: tagSvc}
}

func (s *TagHandler) ListTags(c *gin.Context) {
	tags, err := s.tagSvc.ListTags(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *TagHandler) GetTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tag, err := s.tagSvc.GetTag(c.Request.Context(), c.GetUint64("user_id"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag)
}

func (s *TagHandler) CreateTag(c *gin.Context) {
	var createDTO dto.CreateTagDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	tag, err := s.tagSvc.CreateTag(c.Request.Context(), c.GetUint64("user_id"), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, tag)
}

func (s *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var updateDTO dto.UpdateTagDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	tag, err := s.tagSvc.UpdateTag(c.Request.Context(), c.GetUint64("user_id"), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag)
}

func (s *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.tagSvc.DeleteTag(c.Request.Context(), c.GetUint64("user_id"), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
