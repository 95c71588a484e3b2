package controller

import (
	"aksara_backend/internal/service"
	"aksara_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ArtworkController struct {
	ArtworkService *service.ArtworkService
}

func NewArtworkController(artworkService *service.ArtworkService) *ArtworkController {
	return &ArtworkController{ArtworkService: artworkService}
}

// @Summary 作品列表
// @Tags 作品
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ArtworkWithStatus}
// @Router /artworks [get]
func (c *ArtworkController) ListArtworks(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	list, err := c.ArtworkService.ListArtworks(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 选择作品
// @Description tinta 达到门槛即可解锁并设为当前作品，不扣除余额
// @Tags 作品
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作品ID"
// @Success 200 {object} util.Response{data=model.ArtworkWithStatus}
// @Failure 403 {object} util.Response "tinta 不足"
// @Failure 404 {object} util.Response
// @Router /artworks/{id}/select [post]
func (c *ArtworkController) SelectArtwork(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	artwork, err := c.ArtworkService.SelectArtwork(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, artwork)
}
