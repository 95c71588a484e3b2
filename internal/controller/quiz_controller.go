package controller

import (
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	LedgerService   *service.LedgerService
	ProgressService *service.ProgressService
}

func NewQuizController(ledgerService *service.LedgerService, progressService *service.ProgressService) *QuizController {
	return &QuizController{
		LedgerService:   ledgerService,
		ProgressService: progressService,
	}
}

// @Summary 提交测验
// @Description 每次提交按答对题数发放 tinta；分数达到及格线时标记该难度完成
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "模块ID"
// @Param difficulty path string true "难度 easy/medium/hard"
// @Param body body service.QuizSubmission true "答案，key 为题目位置（从 0 开始）"
// @Success 200 {object} util.Response{data=service.LedgerResult}
// @Failure 400 {object} util.Response{data=service.LedgerResult}
// @Failure 404 {object} util.Response{data=service.LedgerResult}
// @Router /quiz/{moduleId}/{difficulty} [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}

	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	respondLedger(ctx, c.LedgerService.SubmitQuiz(ctx.Request.Context(), userID, moduleID, ctx.Param("difficulty"), req))
}

// @Summary 全部测验结果
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /quiz/results [get]
func (c *QuizController) GetAllQuizResults(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	results, err := c.ProgressService.GetAllQuizResults(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary 模块测验结果
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /quiz/results/{moduleId} [get]
func (c *QuizController) GetQuizResults(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}

	results, err := c.ProgressService.GetQuizResults(ctx.Request.Context(), userID, moduleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
