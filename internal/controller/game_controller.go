package controller

import (
	"aksara_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	LedgerService *service.LedgerService
}

func NewGameController(ledgerService *service.LedgerService) *GameController {
	return &GameController{LedgerService: ledgerService}
}

// @Summary 完成小游戏
// @Description 每个游戏只奖励一次；再次完成返回 alreadyCompleted=true
// @Tags 小游戏
// @Produce json
// @Security ApiKeyAuth
// @Param gameId path string true "游戏ID（tts / dragdrop）"
// @Success 200 {object} util.Response{data=service.LedgerResult}
// @Failure 400 {object} util.Response{data=service.LedgerResult} "未知游戏"
// @Router /games/{gameId}/complete [post]
func (c *GameController) CompleteGame(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	respondLedger(ctx, c.LedgerService.CompleteGame(ctx.Request.Context(), userID, ctx.Param("gameId")))
}
