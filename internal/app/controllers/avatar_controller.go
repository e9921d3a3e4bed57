package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
)

// AvatarController serves the two stored representations of an avatar.
type AvatarController struct {
	avatarService services.AvatarService
}

// NewAvatarController creates a new AvatarController
func NewAvatarController(avatarService services.AvatarService) *AvatarController {
	return &AvatarController{
		avatarService: avatarService,
	}
}

// FromDB handles GET /avatars/:id/from-db, returning the preview bytes
// stored in the avatar row without touching the disk.
func (c *AvatarController) FromDB(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	avatar, err := c.avatarService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, avatar.PreviewMediaType, avatar.PreviewData)
}

// FromFile handles GET /avatars/:id/from-file, streaming the original
// upload from the file store.
func (c *AvatarController) FromFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	avatar, file, err := c.avatarService.OpenOriginal(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	ctx.DataFromReader(http.StatusOK, avatar.FileSize, avatar.MediaType, file, nil)
}
