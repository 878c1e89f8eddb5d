package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const APIVersion = "0.1.0"

type RootHandler struct {
	appName string
}

func NewRootHandler(appName string) *RootHandler {
	return &RootHandler{appName: appName}
}

// Root 服务信息，不使用统一响应包装
func (s *RootHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to " + s.appName + " API",
		"version": APIVersion,
		"docs":    "/docs",
		"status":  "healthy",
	})
}

// Health 存活探针，不检查数据库
func (s *RootHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
