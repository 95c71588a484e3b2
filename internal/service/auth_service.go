package service

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"aksara_backend/pkg/logger"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FullName    string `json:"fullName" binding:"required"`
	Username    string `json:"username"`
	Institution string `json:"institution"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 创建账号，余额从 0 开始
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, util.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		Email:       email,
		FullName:    strings.TrimSpace(req.FullName),
		Institution: strings.TrimSpace(req.Institution),
	}

	if username := strings.TrimSpace(req.Username); username != "" {
		if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
			return nil, err
		}
		user.Username = &username
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashedPassword)

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("userID", user.ID))
	return user, nil
}

// Login identifier 可以是邮箱或用户名
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *model.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.UserRepo.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.UserRepo.FindByUsername(ctx, identifier)
	}
	if errors.Is(err, util.ErrUserNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("userID", user.ID), zap.Error(err))
	}

	return &LoginResponse{Token: token, User: user}, nil
}

// GetProfile 令牌有效但用户已不存在时按未登录处理
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	if userID == 0 {
		return nil, util.ErrNotAuthenticated
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, util.ErrUserNotFound) {
		return nil, util.ErrNotAuthenticated
	}
	return user, err
}

// ChangePassword 旧密码校验通过后才写入新密码
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": string(hashedPassword)}); err != nil {
		return err
	}

	logger.Log.Info("password changed", zap.Uint("userID", userID))
	return nil
}

func (s *AuthService) ensureUsernameFree(ctx context.Context, username string, selfID uint) error {
	existing, err := s.UserRepo.FindByUsername(ctx, username)
	if errors.Is(err, util.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return util.ErrUsernameTaken
	}
	return nil
}
