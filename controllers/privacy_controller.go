package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/services"
)

type PrivacyController struct {
	privacyService services.PrivacyService
}

func NewPrivacyController(privacyService services.PrivacyService) *PrivacyController {
	return &PrivacyController{privacyService: privacyService}
}

// Export handles GET /privacy/export as a JSON download.
func (pc *PrivacyController) Export(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	export, err := pc.privacyService.Export(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="my-data.json"`)
	ctx.JSON(http.StatusOK, export)
}

// Erase handles DELETE /privacy/erase.
func (pc *PrivacyController) Erase(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := pc.privacyService.Erase(ctx.Request.Context(), userID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
