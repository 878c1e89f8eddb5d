package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type ExtensionHandler struct {
	extensionSvc service.ExtensionService
}

func NewExtensionHandler(extensionSvc service.ExtensionService) *ExtensionHandler {
	return &ExtensionHandler{extensionSvc: extensionSvc}
}

func (s *ExtensionHandler) GetToken(c *gin.Context) {
	token, err := s.extensionSvc.GetToken(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *ExtensionHandler) GenerateToken(c *gin.Context) {
	token, err := s.extensionSvc.GenerateToken(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, token)
}

func (s *ExtensionHandler) ActivateToken(c *gin.Context) {
	var activateDTO dto.ActivateTokenDTO
	if c.Request.ContentLength > 0 && !bindJSON(c, &activateDTO) {
		return
	}
	token, err := s.extensionSvc.ActivateToken(c.Request.Context(), c.GetUint64("user_id"), &activateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}
