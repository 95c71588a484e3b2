package controller

import (
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 进度查询与阅读/视频完成上报
type ProgressController struct {
	ProgressService *service.ProgressService
	LedgerService   *service.LedgerService
}

func NewProgressController(progressService *service.ProgressService, ledgerService *service.LedgerService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		LedgerService:   ledgerService,
	}
}

// @Summary 全部学习进度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningProgress}
// @Router /progress [get]
func (c *ProgressController) GetAllProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	list, err := c.ProgressService.GetAllProgress(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 最近学习
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数，默认 5"
// @Success 200 {object} util.Response{data=[]model.LearningProgress}
// @Router /progress/recent [get]
func (c *ProgressController) GetRecentProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limit := util.ParseIntDefault(ctx.Query("limit"), util.DefaultRecentLimit)
	list, err := c.ProgressService.GetRecentProgress(ctx.Request.Context(), userID, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 首页统计
// @Description belajar / latihan / bermain 三类的完成数
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.DashboardStats}
// @Router /progress/dashboard [get]
func (c *ProgressController) GetDashboardStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.ProgressService.GetDashboardStats(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 单个模块的进度
// @Description 没有记录时返回全部未完成的零状态
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=model.LearningProgress}
// @Router /progress/{moduleId} [get]
func (c *ProgressController) GetModuleProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetModuleProgress(ctx.Request.Context(), userID, moduleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 标记模块已阅读
// @Description 首次完成时发放 tinta，重复调用不会重复发放
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=service.LedgerResult}
// @Failure 404 {object} util.Response{data=service.LedgerResult}
// @Failure 500 {object} util.Response{data=service.LedgerResult}
// @Router /progress/{moduleId}/read [post]
func (c *ProgressController) MarkModuleRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}

	respondLedger(ctx, c.LedgerService.MarkModuleRead(ctx.Request.Context(), userID, moduleID))
}

// @Summary 标记视频已看完
// @Description 首次完成时发放 tinta，重复调用不会重复发放
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=service.LedgerResult}
// @Failure 404 {object} util.Response{data=service.LedgerResult}
// @Failure 500 {object} util.Response{data=service.LedgerResult}
// @Router /progress/{moduleId}/video [post]
func (c *ProgressController) FinishVideo(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}

	respondLedger(ctx, c.LedgerService.FinishVideo(ctx.Request.Context(), userID, moduleID))
}
