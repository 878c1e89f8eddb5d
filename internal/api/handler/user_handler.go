package handler

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/response"
	"KolBD/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc  service.UserService
	adminSvc service.AdminUserService
}

func NewUserHandler(userSvc service.UserService, adminSvc service.AdminUserService) *UserHandler {
	return &UserHandler{
		userSvc:  userSvc,
		adminSvc: adminSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if !bindJSON(c, &registerDTO) {
		return
	}
	result, err := s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, result)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.LoginDTO
	if !bindJSON(c, &loginDTO) {
		return
	}
	result, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *UserHandler) Logout(c *gin.Context) {
	err := s.userSvc.Logout(c.Request.Context(), c.GetString("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var profileDTO dto.UpdateProfileDTO
	if !bindJSON(c, &profileDTO) {
		return
	}
	userDTO, err := s.userSvc.UpdateProfile(c.Request.Context(), userID, &profileDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var changePasswordDTO dto.ChangePasswordDTO
	if !bindJSON(c, &changePasswordDTO) {
		return
	}
	err := s.userSvc.ChangePassword(c.Request.Context(), userID, &changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListUsers 仅管理员
func (s *UserHandler) ListUsers(c *gin.Context) {
	var query dto.UserQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.adminSvc.ListUsers(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userDTO, err := s.adminSvc.GetUser(c.Request.Context(), operator(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var updateDTO dto.AdminUpdateUserDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	userDTO, err := s.adminSvc.UpdateUser(c.Request.Context(), operator(c), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.adminSvc.DeleteUser(c.Request.Context(), operator(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
