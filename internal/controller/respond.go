package controller

import (
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusOf 业务错误到 HTTP 状态码的映射，未知错误按 500 处理
func statusOf(err error) int {
	switch {
	case errors.Is(err, util.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, util.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrArtworkNotFound),
		errors.Is(err, util.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrUnknownDifficulty),
		errors.Is(err, util.ErrUnknownGame),
		errors.Is(err, util.ErrInvalidAvatar):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrInsufficientTinta):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		util.LogInternalError(ctx, err)
		return
	}
	util.Error(ctx, status, err.Error())
}

// respondLedger 账本结果总是放在 data 中返回；AlreadyCompleted 不是失败，按 200 返回
func respondLedger(ctx *gin.Context, result *service.LedgerResult) {
	if result.Success || result.AlreadyCompleted {
		util.Success(ctx, result)
		return
	}

	status := statusOf(result.Err)
	ctx.JSON(status, util.Response{
		Code:    status,
		Message: result.Error,
		Data:    result,
	})
}

// currentUserID 路由都挂在 AuthMiddleware 之后，这里只做兜底
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil || claims.UserID == 0 {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
