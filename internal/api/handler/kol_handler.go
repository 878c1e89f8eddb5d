package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type KOLHandler struct {
	kolSvc service.KOLService
}

func NewKOLHandler(kolSvc service.KOLService) *KOLHandler {
	return &KOLHandler{kolSvc: kolSvc}
}

func (s *KOLHandler) CreateKOL(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var createDTO dto.CreateKOLDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	kol, err := s.kolSvc.CreateKOL(c.Request.Context(), userID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, kol)
}

func (s *KOLHandler) BatchImport(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var importDTO dto.BatchImportDTO
	if !bindJSON(c, &importDTO) {
		return
	}
	result, err := s.kolSvc.BatchImport(c.Request.Context(), userID, &importDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *KOLHandler) ListKOLs(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.KOLQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.kolSvc.ListKOLs(c.Request.Context(), userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *KOLHandler) GetKOL(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	kol, err := s.kolSvc.GetKOL(c.Request.Context(), c.GetUint64("user_id"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kol)
}

func (s *KOLHandler) UpdateKOL(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var updateDTO dto.UpdateKOLDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	kol, err := s.kolSvc.UpdateKOL(c.Request.Context(), c.GetUint64("user_id"), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kol)
}

func (s *KOLHandler) DeleteKOL(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.kolSvc.DeleteKOL(c.Request.Context(), c.GetUint64("user_id"), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *KOLHandler) ListHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.kolSvc.ListHistory(c.Request.Context(), c.GetUint64("user_id"), id, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *KOLHandler) AttachTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	kol, err := s.kolSvc.AttachTag(c.Request.Context(), c.GetUint64("user_id"), id, tagID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kol)
}

func (s *KOLHandler) DetachTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	kol, err := s.kolSvc.DetachTag(c.Request.Context(), c.GetUint64("user_id"), id, tagID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kol)
}

func (s *KOLHandler) ListTweets(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.kolSvc.ListTweets(c.Request.Context(), c.GetUint64("user_id"), id, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *KOLHandler) CreateTweet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var tweetDTO dto.CreateTweetDTO
	if !bindJSON(c, &tweetDTO) {
		return
	}
	tweet, err := s.kolSvc.CreateTweet(c.Request.Context(), c.GetUint64("user_id"), id, &tweetDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, tweet)
}
