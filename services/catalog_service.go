package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// CatalogService exposes products to shoppers and to catalog editors.
type CatalogService interface {
	List(ctx context.Context, query *models.ProductQuery) (*models.ProductListResponse, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id uint, req *models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

type catalogServiceImpl struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{products: products, logger: logger}
}

// List returns active products, newest first.
func (s *catalogServiceImpl) List(ctx context.Context, query *models.ProductQuery) (*models.ProductListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	products, total, err := s.products.List(ctx, repository.ProductFilter{
		Query:      query.Q,
		Brand:      query.Brand,
		ActiveOnly: true,
		Offset:     (page - 1) * size,
		Limit:      size,
	})
	if err != nil {
		return nil, apperrors.Upstream("list products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return &models.ProductListResponse{Items: products, Total: total}, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "find product", "Not found")
	}
	return product, nil
}

func (s *catalogServiceImpl) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:      req.Name,
		BasePrice: req.BasePrice,
		SKU:       req.SKU,
		BrandID:   req.BrandID,
		IsActive:  true,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, s.writeError(err, "create product")
	}
	s.logger.Info("Product created", zap.Uint("product_id", product.ID))
	return product, nil
}

// Update applies the fields present in req and leaves the others untouched.
func (s *catalogServiceImpl) Update(ctx context.Context, id uint, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "find product", "Not found")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.BasePrice != nil {
		product.BasePrice = req.BasePrice
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.BrandID != nil {
		product.BrandID = req.BrandID
		product.Brand = nil
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, s.writeError(err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *catalogServiceImpl) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.Conflict("Product is referenced by carts or orders")
		}
		return repoError(err, "delete product", "Not found")
	}
	s.logger.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

func (s *catalogServiceImpl) writeError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("Product SKU already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Validation("Unknown brand")
	}
	return apperrors.Upstream(op, err)
}
