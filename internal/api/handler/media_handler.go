package handler

import (
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	userSvc service.UserService
}

func NewMediaHandler(userSvc service.UserService) *MediaHandler {
	return &MediaHandler{userSvc: userSvc}
}

// UploadAvatar multipart 字段 file，按文件头嗅探类型而不是信任客户端声明
func (s *MediaHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if file.Size > consts.MaxAvatarSize {
		response.Error(c, service.ErrFileTooLarge)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		response.Error(c, service.ErrFileNotSupported)
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, consts.MimePrefixImage+"/") {
		response.Error(c, service.ErrFileNotSupported)
		return
	}
	log.InfoContext(c.Request.Context(), "avatar upload", "content_type", contentType, "size", file.Size)

	body := io.MultiReader(bytes.NewReader(head[:n]), reader)
	userDTO, err := s.userSvc.UpdateAvatar(c.Request.Context(), userID, body, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}
