package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

func (s *AnalyticsHandler) Overview(c *gin.Context) {
	var query dto.OverviewQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	overview, err := s.analyticsSvc.Overview(c.Request.Context(), c.GetUint64("user_id"), query.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

func (s *AnalyticsHandler) Distributions(c *gin.Context) {
	distributions, err := s.analyticsSvc.Distributions(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, distributions)
}

func (s *AnalyticsHandler) TemplateEffectiveness(c *gin.Context) {
	items, err := s.analyticsSvc.TemplateEffectiveness(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

func (s *AnalyticsHandler) Timeline(c *gin.Context) {
	var query dto.TimelineQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	points, err := s.analyticsSvc.Timeline(c.Request.Context(), c.GetUint64("user_id"), query.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, points)
}
