package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/database"
	"KolBD/internal/pkg/redis"
	"KolBD/internal/pkg/security"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ObjectStorage 头像存储，未配置时 Enabled 返回 false
type ObjectStorage interface {
	Enabled() bool
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	PublicURL(objectName string) string
}

var avatarMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (*dto.AuthResultDTO, error)
	Login(ctx context.Context, dto *dto.LoginDTO) (*dto.AuthResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, id uint64, dto *dto.UpdateProfileDTO) (*dto.UserDTO, error)
	ChangePassword(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdateAvatar(ctx context.Context, id uint64, reader io.Reader, size int64, contentType string) (*dto.UserDTO, error)
	CreateAdmin(ctx context.Context, email, password, fullName string) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	tokens   *security.TokenManager
	storage  ObjectStorage
}

func NewUserService(userRepo repository.UserRepo, tokens *security.TokenManager, storage ObjectStorage) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		storage:  storage,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.AuthResultDTO, error) {
	user, err := s.createUser(ctx, regDTO.Email, regDTO.Password, regDTO.FullName, model.RoleMember)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.AuthResultDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, loginDTO.Email)
	if err != nil {
		return nil, err
	}
	// 邮箱不存在与密码错误返回同一个错误
	if user == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(loginDTO.Password, user.HashedPassword); err != nil {
		return nil, ErrPasswordIncorrect
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.issue(user)
}

// Logout 将 token 签名加入黑名单直到其过期，未配置 redis 时不做处理
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return UnauthorizedError
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}
	ttl := security.RemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}
	err = redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, 1, ttl)
	if errors.Is(err, redis.ErrDisabled) {
		log.WarnContext(ctx, "redis disabled, logout is client side only", "user_id", claims.UserID)
		return nil
	}
	return err
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserDTO(user)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, profileDTO *dto.UpdateProfileDTO) (*dto.UserDTO, error) {
	updates := make(map[string]any)
	if profileDTO.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*profileDTO.FullName)
	}
	if profileDTO.Email != nil {
		email := normalizeEmail(*profileDTO.Email)
		taken, err := s.userRepo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExist
		}
		updates["email"] = email
	}

	if err := s.userRepo.UpdateUser(ctx, id, updates); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrEmailExist
		}
		return nil, err
	}
	return s.GetUserInfo(ctx, id)
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = security.CheckPasswordHash(pwdDTO.CurrentPassword, user.HashedPassword); err != nil {
		return ErrCurrentPasswordIncorrect
	}
	hashed, err := security.HashPassword(pwdDTO.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateUser(ctx, id, map[string]any{"hashed_password": hashed})
}

// UpdateAvatar 裁剪为正方形 JPEG 后上传，成功后删除旧头像
func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, reader io.Reader, size int64, contentType string) (*dto.UserDTO, error) {
	if s.storage == nil || !s.storage.Enabled() {
		return nil, ErrStorageDisabled
	}
	if !avatarMimeTypes[contentType] {
		return nil, ErrFileNotSupported
	}
	if size > consts.MaxAvatarSize {
		return nil, ErrFileTooLarge
	}

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	data, err := util.ResizeAvatar(io.LimitReader(reader, consts.MaxAvatarSize+1), consts.AvatarDimension)
	if err != nil {
		return nil, ErrFileNotSupported
	}

	objectName := fmt.Sprintf("avatars/%d/%s.jpg", id, uuid.NewString())
	objectName, err = s.storage.Upload(ctx, objectName, bytes.NewReader(data), int64(len(data)), "image/jpeg")
	if err != nil {
		return nil, err
	}
	if err = s.userRepo.UpdateUser(ctx, id, map[string]any{"avatar": objectName}); err != nil {
		_ = s.storage.Delete(ctx, objectName)
		return nil, err
	}
	if user.Avatar != nil && *user.Avatar != "" {
		if err = s.storage.Delete(ctx, *user.Avatar); err != nil {
			log.WarnContext(ctx, "delete old avatar failed", "object", *user.Avatar, "err", err)
		}
	}
	return s.GetUserInfo(ctx, id)
}

// CreateAdmin 供命令行初始化管理员使用
func (s *UserServiceImpl) CreateAdmin(ctx context.Context, email, password, fullName string) (*dto.UserDTO, error) {
	user, err := s.createUser(ctx, email, password, fullName, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return s.toUserDTO(user)
}

func (s *UserServiceImpl) createUser(ctx context.Context, email, password, fullName string, role model.UserRole) (*model.User, error) {
	email = normalizeEmail(email)
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExist
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:          email,
		HashedPassword: hashed,
		FullName:       strings.TrimSpace(fullName),
		Role:           role,
		IsActive:       true,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrEmailExist
		}
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) issue(user *model.User) (*dto.AuthResultDTO, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	userDTO, err := s.toUserDTO(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResultDTO{
		User:      userDTO,
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *UserServiceImpl) toUserDTO(user *model.User) (*dto.UserDTO, error) {
	return toUserDTO(user, s.storage)
}

func toUserDTO(user *model.User, storage ObjectStorage) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	if user.Avatar != nil && *user.Avatar != "" && storage != nil && storage.Enabled() {
		url := storage.PublicURL(*user.Avatar)
		userDTO.Avatar = &url
	}
	return userDTO, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
