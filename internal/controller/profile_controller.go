package controller

import (
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	AuthService    *service.AuthService
	ProfileService *service.ProfileService
}

func NewProfileController(authService *service.AuthService, profileService *service.ProfileService) *ProfileController {
	return &ProfileController{
		AuthService:    authService,
		ProfileService: profileService,
	}
}

// @Summary 获取个人资料
// @Tags 个人资料
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	user, err := c.AuthService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 更新个人资料
// @Description 只更新请求中出现的字段，用户名必须唯一
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 409 {object} util.Response "用户名已被使用"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.ProfileService.UpdateProfile(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 修改密码
// @Description 需要提供当前密码，新密码至少 6 位
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ChangePasswordRequest true "密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response "当前密码错误"
// @Router /profile/password [put]
func (c *ProfileController) ChangePassword(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req service.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(ctx.Request.Context(), userID, req); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

// @Summary 上传头像
// @Tags 个人资料
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param avatar formData file true "头像文件（jpg/png/webp，最大 2MB）"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	user, err := c.ProfileService.UploadAvatar(ctx.Request.Context(), userID, service.AvatarFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
