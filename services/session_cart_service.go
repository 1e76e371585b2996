package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

const (
	placeholderNotFound = "Product Not Found"
	placeholderError    = "Error Loading Product"
)

// NewSessionID mints an opaque anonymous session identifier.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}

// SessionCartService manages anonymous carts keyed by session identifier.
// Read-modify-write sequences are not serialized per session: the last write wins.
type SessionCartService interface {
	Get(ctx context.Context, sessionID string) ([]models.EnrichedSessionCartItem, error)
	Add(ctx context.Context, sessionID string, req *models.AddSessionCartItemRequest) (*models.SessionCartItem, int, error)
	Remove(ctx context.Context, sessionID, itemID string) error
	SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) error
	Clear(ctx context.Context, sessionID string) error
}

type sessionCartServiceImpl struct {
	store    repository.SessionCartStore
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewSessionCartService(store repository.SessionCartStore, products repository.ProductRepository, logger *zap.Logger) SessionCartService {
	return &sessionCartServiceImpl{
		store:    store,
		products: products,
		logger:   logger,
	}
}

// Get returns the cart with a catalog snapshot per line. Lines whose product is
// gone are kept with a placeholder product.
func (s *sessionCartServiceImpl) Get(ctx context.Context, sessionID string) ([]models.EnrichedSessionCartItem, error) {
	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Upstream("load session cart", err)
	}

	out := make([]models.EnrichedSessionCartItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.EnrichedSessionCartItem{
			SessionCartItem: item,
			Product:         s.snapshot(ctx, item.ProductID),
		})
	}
	return out, nil
}

func (s *sessionCartServiceImpl) snapshot(ctx context.Context, productID uint) models.ProductSnapshot {
	product, err := s.products.FindWithVariants(ctx, productID)
	if err != nil {
		name := placeholderError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			name = placeholderNotFound
			s.logger.Warn("Session cart references missing product", zap.Uint("product_id", productID))
		} else {
			s.logger.Error("Failed to load product for session cart", zap.Uint("product_id", productID), zap.Error(err))
		}
		return models.ProductSnapshot{
			ID:        productID,
			Name:      name,
			BasePrice: decimal.Zero,
			Images:    []models.ProductImage{},
		}
	}

	images := product.PrimaryImages()
	if len(images) > 1 {
		images = images[:1]
	}
	return models.ProductSnapshot{
		ID:        product.ID,
		Name:      product.Name,
		BasePrice: product.BasePriceOrZero(),
		Images:    images,
		Brand:     product.Brand,
	}
}

// Add merges into the line with the same product, size and color, capping the
// quantity at the maximum. It returns the line and the cart's total quantity.
func (s *sessionCartServiceImpl) Add(ctx context.Context, sessionID string, req *models.AddSessionCartItemRequest) (*models.SessionCartItem, int, error) {
	if req.ProductID == nil || *req.ProductID <= 0 {
		return nil, 0, apperrors.Validation("Invalid product id")
	}
	if req.Quantity == nil || *req.Quantity < models.MinQuantity || *req.Quantity > models.MaxQuantity {
		return nil, 0, apperrors.Validation("Quantity must be between 1 and 10")
	}
	productID := uint(*req.ProductID)
	quantity := req.Quantity.Int()
	size := valueOr(req.Size, models.DefaultSize)
	color := valueOr(req.Color, models.DefaultColor)

	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, 0, apperrors.Upstream("load session cart", err)
	}

	idx := -1
	for i := range items {
		if items[i].ProductID == productID && items[i].Size == size && items[i].Color == color {
			idx = i
			break
		}
	}
	if idx >= 0 {
		items[idx].Quantity = min(models.MaxQuantity, items[idx].Quantity+quantity)
	} else {
		items = append(items, models.SessionCartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
		})
		idx = len(items) - 1
	}

	if err := s.store.Save(ctx, sessionID, items); err != nil {
		return nil, 0, apperrors.Upstream("save session cart", err)
	}

	item := items[idx]
	return &item, cartCount(items), nil
}

// Remove is idempotent: an unknown item id leaves the cart unchanged.
func (s *sessionCartServiceImpl) Remove(ctx context.Context, sessionID, itemID string) error {
	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return apperrors.Upstream("load session cart", err)
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	if err := s.store.Save(ctx, sessionID, kept); err != nil {
		return apperrors.Upstream("save session cart", err)
	}
	return nil
}

// SetQuantity clamps quantity into [1, 10] instead of rejecting it. An unknown
// item id is a no-op.
func (s *sessionCartServiceImpl) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return apperrors.Upstream("load session cart", err)
	}

	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = models.ClampQuantity(quantity)
			if err := s.store.Save(ctx, sessionID, items); err != nil {
				return apperrors.Upstream("save session cart", err)
			}
			return nil
		}
	}
	return nil
}

func (s *sessionCartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return apperrors.Upstream("clear session cart", err)
	}
	return nil
}

func cartCount(items []models.SessionCartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func valueOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}
