package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

// Virtual variants stand in for products that have no real variant.
const virtualVariantStock = 100

// CartSyncService replaces a user's cart with the anonymous cart submitted at login.
type CartSyncService interface {
	Sync(ctx context.Context, userID uuid.UUID, items []models.SyncCartItem, sessionID string) ([]models.CartItem, int, error)
}

type cartSyncServiceImpl struct {
	tx       repository.Transactor
	sessions repository.SessionCartStore
	metrics  aws_pkg.MetricsRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewCartSyncService(tx repository.Transactor, sessions repository.SessionCartStore, metrics aws_pkg.MetricsRecorder, logger *zap.Logger) CartSyncService {
	return &cartSyncServiceImpl{
		tx:       tx,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync deletes every existing cart row of the user, then adds one row per
// submitted item on the product's first variant, ignoring the submitted size and
// color. Products without variants get a virtual variant. Unknown products are
// skipped. Items landing on the same variant share one row, capped at the
// maximum quantity. It returns the new cart and the number of items migrated.
// When sessionID is set, that anonymous cart is cleared after commit.
func (s *cartSyncServiceImpl) Sync(ctx context.Context, userID uuid.UUID, items []models.SyncCartItem, sessionID string) ([]models.CartItem, int, error) {
	var cart []models.CartItem
	synced := 0

	err := s.tx.Transaction(ctx, func(repos repository.Repositories) error {
		synced = 0
		if err := repos.Carts.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		rows := map[uint]*models.CartItem{}
		var order []uint

		for _, item := range items {
			if item.ProductID <= 0 {
				continue
			}
			product, err := repos.Products.FindWithVariants(ctx, uint(item.ProductID))
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("load product %d: %w", item.ProductID, err)
			}

			variantID, err := s.resolveVariant(ctx, repos, product, item)
			if err != nil {
				return err
			}

			qty := models.ClampQuantity(item.Quantity.Int())
			if row, ok := rows[variantID]; ok {
				row.Quantity = models.ClampQuantity(row.Quantity + qty)
			} else {
				rows[variantID] = &models.CartItem{
					UserID:           userID,
					ProductVariantID: variantID,
					Quantity:         qty,
				}
				order = append(order, variantID)
			}
			synced++
		}

		for _, variantID := range order {
			if err := repos.Carts.Create(ctx, rows[variantID]); err != nil {
				return fmt.Errorf("create cart row: %w", err)
			}
		}

		var err error
		cart, err = repos.Carts.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("reload cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, apperrors.Upstream("synchronize cart", err)
	}

	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("Failed to clear session cart after sync", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	recordMetric(s.metrics, s.logger, aws_pkg.MetricCartSyncs, func(ctx context.Context, r aws_pkg.MetricsRecorder) error {
		return r.RecordValue(ctx, aws_pkg.MetricCartSyncs, float64(synced), nil)
	})

	if cart == nil {
		cart = []models.CartItem{}
	}
	s.logger.Info("Cart synchronized", zap.String("user_id", userID.String()), zap.Int("synced_items", synced))
	return cart, synced, nil
}

func (s *cartSyncServiceImpl) resolveVariant(ctx context.Context, repos repository.Repositories, product *models.Product, item models.SyncCartItem) (uint, error) {
	if len(product.Variants) > 0 {
		return product.Variants[0].ID, nil
	}

	variant := s.virtualVariant(product, item)
	if err := repos.Variants.Create(ctx, variant); err != nil {
		return 0, fmt.Errorf("create virtual variant for product %d: %w", product.ID, err)
	}
	return variant.ID, nil
}

func (s *cartSyncServiceImpl) virtualVariant(product *models.Product, item models.SyncCartItem) *models.ProductVariant {
	price := product.BasePriceOrZero()
	color := item.Color
	if color == "" {
		color = models.DefaultColor
	}

	return &models.ProductVariant{
		ProductID:     product.ID,
		Size:          parseSize(item.Size),
		Color:         &color,
		Price:         &price,
		StockQuantity: virtualVariantStock,
		SKU:           fmt.Sprintf("VIRTUAL-%d-%d", product.ID, s.now().UnixMilli()),
	}
}

// parseSize returns nil for sizes that are not numeric, such as "One Size".
func parseSize(size string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(size), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
