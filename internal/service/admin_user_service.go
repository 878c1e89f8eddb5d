package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/repository"
	"context"
	"strings"
)

// Operator 当前请求的调用者
type Operator struct {
	UserID  uint64
	IsAdmin bool
}

type AdminUserService interface {
	ListUsers(ctx context.Context, query *dto.UserQueryDTO) (*dto.PageDTO[*dto.UserDTO], error)
	GetUser(ctx context.Context, op Operator, id uint64) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, op Operator, id uint64, dto *dto.AdminUpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, op Operator, id uint64) error
}

type AdminUserServiceImpl struct {
	userRepo repository.UserRepo
	storage  ObjectStorage
}

func NewAdminUserService(userRepo repository.UserRepo, storage ObjectStorage) AdminUserService {
	return &AdminUserServiceImpl{
		userRepo: userRepo,
		storage:  storage,
	}
}

func (s *AdminUserServiceImpl) ListUsers(ctx context.Context, query *dto.UserQueryDTO) (*dto.PageDTO[*dto.UserDTO], error) {
	query.Normalize(consts.DefaultPageSize)
	filter := &repository.UserFilter{
		Page:     repository.Page{Page: query.Page, Limit: query.Limit},
		Search:   strings.TrimSpace(query.Search),
		Role:     query.Role,
		IsActive: query.IsActive,
	}
	users, total, err := s.userRepo.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		userDTO, err := toUserDTO(u, s.storage)
		if err != nil {
			return nil, err
		}
		items = append(items, userDTO)
	}
	return dto.NewPage(items, total, query.Page, query.Limit), nil
}

// GetUser 管理员可查看任意用户，普通用户只能查看自己
func (s *AdminUserServiceImpl) GetUser(ctx context.Context, op Operator, id uint64) (*dto.UserDTO, error) {
	if !op.IsAdmin && op.UserID != id {
		return nil, ForbiddenError
	}
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, s.storage)
}

// UpdateUser 角色与启用状态只能由管理员修改他人
func (s *AdminUserServiceImpl) UpdateUser(ctx context.Context, op Operator, id uint64, updateDTO *dto.AdminUpdateUserDTO) (*dto.UserDTO, error) {
	if !op.IsAdmin && op.UserID != id {
		return nil, ForbiddenError
	}
	touchesAccess := updateDTO.Role != nil || updateDTO.IsActive != nil
	if touchesAccess && !op.IsAdmin {
		return nil, ForbiddenError
	}
	if touchesAccess && op.UserID == id {
		return nil, ErrCannotModifySelf
	}

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	updates := make(map[string]any)
	if updateDTO.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*updateDTO.FullName)
	}
	if updateDTO.Role != nil {
		updates["role"] = *updateDTO.Role
	}
	if updateDTO.IsActive != nil {
		updates["is_active"] = *updateDTO.IsActive
	}
	if err = s.userRepo.UpdateUser(ctx, id, updates); err != nil {
		return nil, err
	}

	user, err = s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user, s.storage)
}

func (s *AdminUserServiceImpl) DeleteUser(ctx context.Context, op Operator, id uint64) error {
	if !op.IsAdmin {
		return ForbiddenError
	}
	if op.UserID == id {
		return ErrCannotModifySelf
	}
	affected, err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
