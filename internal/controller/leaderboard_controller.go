package controller

import (
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary tinta 排行榜
// @Description 按 tinta 降序，附带当前用户的名次
// @Tags 社交
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数，默认 10"
// @Success 200 {object} util.Response{data=service.LeaderboardResponse}
// @Router /leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limit := util.ParseIntDefault(ctx.Query("limit"), service.DefaultLeaderboardLimit)
	resp, err := c.LeaderboardService.GetLeaderboard(ctx.Request.Context(), userID, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
