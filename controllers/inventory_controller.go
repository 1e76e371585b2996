package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

// InventoryController serves the admin stock panel. Routes are admin only.
type InventoryController struct {
	inventoryService services.InventoryService
}

func NewInventoryController(inventoryService services.InventoryService) *InventoryController {
	return &InventoryController{inventoryService: inventoryService}
}

// GetProducts handles GET /inventory/products.
func (ic *InventoryController) GetProducts(ctx *gin.Context) {
	overview, err := ic.inventoryService.Overview(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

// UpdateStock handles PUT /inventory/stock.
func (ic *InventoryController) UpdateStock(ctx *gin.Context) {
	var req models.SetStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	variant, err := ic.inventoryService.SetStock(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.SetStockResponse{Message: "Stock updated successfully", Variant: variant})
}

// GetStats handles GET /inventory/stats.
func (ic *InventoryController) GetStats(ctx *gin.Context) {
	stats, err := ic.inventoryService.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// Search handles GET /inventory/search?q=&brand=&lowStock=&outOfStock=.
func (ic *InventoryController) Search(ctx *gin.Context) {
	var query models.InventorySearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}

	products, err := ic.inventoryService.Search(ctx.Request.Context(), &query)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}
