package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactSvc service.ContactService
}

func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

func (s *ContactHandler) ListContacts(c *gin.Context) {
	var query dto.ContactQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.contactSvc.ListContacts(c.Request.Context(), c.GetUint64("user_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *ContactHandler) GetContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	contact, err := s.contactSvc.GetContact(c.Request.Context(), c.GetUint64("user_id"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, contact)
}

func (s *ContactHandler) CreateContact(c *gin.Context) {
	var createDTO dto.CreateContactDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	contact, err := s.contactSvc.CreateContact(c.Request.Context(), c.GetUint64("user_id"), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, contact)
}

func (s *ContactHandler) UpdateContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var updateDTO dto.UpdateContactDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	contact, err := s.contactSvc.UpdateContact(c.Request.Context(), c.GetUint64("user_id"), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, contact)
}

func (s *ContactHandler) DeleteContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.contactSvc.DeleteContact(c.Request.Context(), c.GetUint64("user_id"), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
