package service

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"aksara_backend/pkg/logger"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type ProfileService struct {
	UserRepo *repository.UserRepository
	Auth     *AuthService
	Storage  *StorageService
}

func NewProfileService(userRepo *repository.UserRepository, auth *AuthService, storage *StorageService) *ProfileService {
	return &ProfileService{
		UserRepo: userRepo,
		Auth:     auth,
		Storage:  storage,
	}
}

// UpdateProfileRequest nil 字段保持不变
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Username    *string `json:"username"`
	Institution *string `json:"institution"`
}

// AvatarFile 上传的头像文件
type AvatarFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*model.User, error) {
	if _, err := s.Auth.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Institution != nil {
		fields["institution"] = strings.TrimSpace(*req.Institution)
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			fields["username"] = nil
		} else {
			if err := s.Auth.ensureUsernameFree(ctx, username, userID); err != nil {
				return nil, err
			}
			fields["username"] = username
		}
	}

	if err := s.UserRepo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByID(ctx, userID)
}

// UploadAvatar 保存头像并更新资料，旧头像尽力删除
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint, file AvatarFile) (*model.User, error) {
	user, err := s.Auth.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	if file.Size <= 0 || file.Size > util.MaxAvatarSize || !slices.Contains(util.AllowedImageExtensions, ext) {
		return nil, util.ErrInvalidAvatar
	}
	if file.ContentType != "" && !strings.HasPrefix(file.ContentType, util.MimeImage) {
		return nil, util.ErrInvalidAvatar
	}

	name := ObjectName(fmt.Sprintf("avatars/%d", userID), file.Name)
	url, err := s.Storage.Upload(ctx, name, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.UserRepo.UpdateFields(ctx, userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return nil, err
	}

	if old := s.objectFromURL(user.AvatarURL); old != "" {
		if err := s.Storage.Delete(ctx, old); err != nil {
			logger.Log.Warn("failed to delete old avatar", zap.String("object", old), zap.Error(err))
		}
	}

	user.AvatarURL = url
	return user, nil
}

// objectFromURL 只处理由当前存储生成的地址
func (s *ProfileService) objectFromURL(url string) string {
	if url == "" {
		return ""
	}
	prefix := s.Storage.GetURL("")
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
