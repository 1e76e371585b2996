package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

// CartController serves the authenticated cart.
type CartController struct {
	cartService services.CartService
}

func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	items, err := cc.cartService.List(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// UpsertItem handles POST /cart.
func (cc *CartController) UpsertItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req models.UpsertCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	item, err := cc.cartService.Upsert(ctx.Request.Context(), userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// RemoveItem handles DELETE /cart/:variantId.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	variantID, ok := uintParam(ctx, "variantId", "Invalid variant id")
	if !ok {
		return
	}

	if err := cc.cartService.Remove(ctx.Request.Context(), userID, variantID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
