package handler

import (
	"KolBD/internal/model"
	"KolBD/internal/pkg/response"
	"KolBD/internal/pkg/util"
	"KolBD/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bindJSON 解析并校验请求体，失败时已写入响应
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, err)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.Fail(c, response.Unprocessable, "查询参数错误")
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.Unprocessable, name+" 参数错误")
		return 0, false
	}
	return id, true
}

func operator(c *gin.Context) service.Operator {
	return service.Operator{
		UserID:  c.GetUint64("user_id"),
		IsAdmin: c.GetString("role") == string(model.RoleAdmin),
	}
}
