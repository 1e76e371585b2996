package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

type ProductController struct {
	catalogService services.CatalogService
}

func NewProductController(catalogService services.CatalogService) *ProductController {
	return &ProductController{catalogService: catalogService}
}

// ListProducts handles GET /products?q=&brand=&page=&pageSize=.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	var query models.ProductQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}

	resp, err := pc.catalogService.List(ctx.Request.Context(), &query)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id", "Invalid product id")
	if !ok {
		return
	}

	product, err := pc.catalogService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products (admin, moderator).
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var req models.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	product, err := pc.catalogService.Create(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id (admin, moderator).
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id", "Invalid product id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	product, err := pc.catalogService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id (admin).
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id", "Invalid product id")
	if !ok {
		return
	}

	if err := pc.catalogService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
