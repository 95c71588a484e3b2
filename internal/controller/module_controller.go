package controller

import (
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

// @Summary 模块列表
// @Description 按模块编号排序，附带当前用户的进度百分比
// @Tags 学习模块
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ModuleWithProgress}
// @Router /modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	modules, err := c.ModuleService.ListModules(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary 模块详情
// @Tags 学习模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /modules/{id} [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	module, err := c.ModuleService.GetModule(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary 按 slug 获取模块
// @Tags 学习模块
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "模块 slug"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /modules/slug/{slug} [get]
func (c *ModuleController) GetModuleBySlug(ctx *gin.Context) {
	module, err := c.ModuleService.GetModuleBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary 模块阅读内容
// @Tags 学习模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=[]model.ModuleContent}
// @Failure 404 {object} util.Response
// @Router /modules/{id}/contents [get]
func (c *ModuleController) GetModuleContents(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	contents, err := c.ModuleService.GetModuleContents(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, contents)
}

// @Summary 测验题目
// @Description 按题号排序，不包含正确答案
// @Tags 学习模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Param difficulty path string true "难度 easy/medium/hard（或 mudah/sedang/sulit）"
// @Success 200 {object} util.Response{data=[]model.QuizQuestion}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /modules/{id}/quiz/{difficulty} [get]
func (c *ModuleController) GetQuizQuestions(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.ModuleService.GetQuizQuestions(ctx.Request.Context(), id, ctx.Param("difficulty"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
