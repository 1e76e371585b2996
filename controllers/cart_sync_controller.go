package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

type CartSyncController struct {
	syncService services.CartSyncService
}

func NewCartSyncController(syncService services.CartSyncService) *CartSyncController {
	return &CartSyncController{syncService: syncService}
}

// Sync handles POST /cart-sync/sync. The anonymous cart named by the request's
// session cookie or header is cleared once the merge commits.
func (sc *CartSyncController) Sync(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req models.SyncCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.SessionCartItems == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session cart items"})
		return
	}

	cart, synced, err := sc.syncService.Sync(ctx.Request.Context(), userID, *req.SessionCartItems, clientSessionID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.SyncCartResponse{
		Message:     "Cart synchronized successfully",
		Cart:        cart,
		SyncedItems: synced,
	})
}
