package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

// CartService manages the persisted cart of an authenticated user.
type CartService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Upsert(ctx context.Context, userID uuid.UUID, req *models.UpsertCartItemRequest) (*models.CartItem, error)
	Remove(ctx context.Context, userID uuid.UUID, variantID uint) error
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	variants repository.VariantRepository
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, variants repository.VariantRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		carts:    carts,
		variants: variants,
		logger:   logger,
	}
}

func (s *cartServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Upstream("list cart", err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Upsert sets the quantity of the (user, variant) row. Unlike the anonymous
// cart, a repeated call overwrites the quantity instead of adding to it.
func (s *cartServiceImpl) Upsert(ctx context.Context, userID uuid.UUID, req *models.UpsertCartItemRequest) (*models.CartItem, error) {
	if req.Quantity < models.MinQuantity || req.Quantity > models.MaxQuantity {
		return nil, apperrors.Validation("Quantity must be between 1 and 10")
	}
	if _, err := s.variants.FindByID(ctx, req.ProductVariantID); err != nil {
		return nil, repoError(err, "find variant", "Product variant not found")
	}

	item := &models.CartItem{
		UserID:           userID,
		ProductVariantID: req.ProductVariantID,
		Quantity:         req.Quantity,
	}
	if err := s.carts.Upsert(ctx, item); err != nil {
		return nil, apperrors.Upstream("upsert cart item", err)
	}
	return item, nil
}

// Remove fails with NotFound when the user has no row for the variant.
func (s *cartServiceImpl) Remove(ctx context.Context, userID uuid.UUID, variantID uint) error {
	if err := s.carts.Delete(ctx, userID, variantID); err != nil {
		return repoError(err, "delete cart item", "Cart item not found")
	}
	return nil
}
