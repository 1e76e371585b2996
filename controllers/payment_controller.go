package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

type PaymentController struct {
	checkoutService services.CheckoutService
}

func NewPaymentController(checkoutService services.CheckoutService) *PaymentController {
	return &PaymentController{checkoutService: checkoutService}
}

// CreateIntent handles POST /payments/create.
func (pc *PaymentController) CreateIntent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	intent, err := pc.checkoutService.CreateIntent(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, intent)
}

// CreateSessionIntent handles POST /payments/create-session for anonymous shoppers.
func (pc *PaymentController) CreateSessionIntent(ctx *gin.Context) {
	var req models.SessionPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	intent, err := pc.checkoutService.CreateSessionIntent(ctx.Request.Context(), req.CartItems)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, intent)
}

// Confirm handles POST /payments/confirm.
func (pc *PaymentController) Confirm(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	order, err := pc.checkoutService.Confirm(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.ConfirmPaymentResponse{OK: true, Order: order})
}
