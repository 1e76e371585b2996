package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

const (
	lowStockThreshold = 10
	recentWindow      = 7 * 24 * time.Hour
	recentLimit       = 10
)

// InventoryService backs the admin stock panel.
type InventoryService interface {
	Overview(ctx context.Context) (*models.InventoryOverview, error)
	SetStock(ctx context.Context, req *models.SetStockRequest) (*models.ProductVariant, error)
	Stats(ctx context.Context) (*models.StockStats, error)
	Search(ctx context.Context, query *models.InventorySearchQuery) ([]models.Product, error)
}

type inventoryServiceImpl struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	metrics  aws_pkg.MetricsRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewInventoryService(products repository.ProductRepository, variants repository.VariantRepository, metrics aws_pkg.MetricsRecorder, logger *zap.Logger) InventoryService {
	return &inventoryServiceImpl{
		products: products,
		variants: variants,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *inventoryServiceImpl) Overview(ctx context.Context) (*models.InventoryOverview, error) {
	products, err := s.products.ListForInventory(ctx)
	if err != nil {
		return nil, apperrors.Upstream("list inventory", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return &models.InventoryOverview{
		Products: products,
		Stats:    summarize(products),
	}, nil
}

// summarize counts per product. A product without variants counts as out of stock.
func summarize(products []models.Product) models.InventoryStats {
	stats := models.InventoryStats{TotalProducts: int64(len(products))}
	for _, p := range products {
		stats.TotalVariants += int64(len(p.Variants))
		if hasLowStock(p) {
			stats.LowStockProducts++
		}
		if isOutOfStock(p) {
			stats.OutOfStockProducts++
		}
		for _, v := range p.Variants {
			stats.TotalStock += int64(v.StockQuantity)
		}
	}
	return stats
}

func hasLowStock(p models.Product) bool {
	for _, v := range p.Variants {
		if v.StockQuantity < lowStockThreshold {
			return true
		}
	}
	return false
}

func isOutOfStock(p models.Product) bool {
	for _, v := range p.Variants {
		if v.StockQuantity != 0 {
			return false
		}
	}
	return true
}

// SetStock overwrites the stock of a variant with an absolute value.
func (s *inventoryServiceImpl) SetStock(ctx context.Context, req *models.SetStockRequest) (*models.ProductVariant, error) {
	if req.StockQuantity == nil || *req.StockQuantity < 0 {
		return nil, apperrors.Validation("Invalid input data")
	}

	variant, err := s.variants.SetStock(ctx, req.VariantID, *req.StockQuantity)
	if err != nil {
		return nil, repoError(err, "set stock", "Product variant not found")
	}

	s.logger.Info("Stock updated", zap.Uint("variant_id", variant.ID), zap.Int("stock", variant.StockQuantity))
	recordMetric(s.metrics, s.logger, aws_pkg.MetricStockUpdates, func(ctx context.Context, r aws_pkg.MetricsRecorder) error {
		return r.RecordCount(ctx, aws_pkg.MetricStockUpdates, nil)
	})
	return variant, nil
}

func (s *inventoryServiceImpl) Stats(ctx context.Context) (*models.StockStats, error) {
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, apperrors.Upstream("count products", err)
	}
	totals, err := s.variants.Totals(ctx)
	if err != nil {
		return nil, apperrors.Upstream("aggregate variants", err)
	}
	recent, err := s.variants.RecentlyUpdated(ctx, s.now().Add(-recentWindow), recentLimit)
	if err != nil {
		return nil, apperrors.Upstream("list recent updates", err)
	}
	if recent == nil {
		recent = []models.ProductVariant{}
	}

	return &models.StockStats{
		TotalProducts:      products,
		TotalVariants:      totals.Variants,
		TotalStock:         totals.Stock,
		LowStockVariants:   totals.LowStock,
		OutOfStockVariants: totals.OutOfStock,
		RecentUpdates:      recent,
	}, nil
}

// Search filters by text first, then by stock. lowStock keeps products with a
// variant holding 1 to 9 units; outOfStock keeps products whose variants are all at zero.
func (s *inventoryServiceImpl) Search(ctx context.Context, query *models.InventorySearchQuery) ([]models.Product, error) {
	products, err := s.products.Search(ctx, query.Q, query.Brand)
	if err != nil {
		return nil, apperrors.Upstream("search inventory", err)
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if query.LowStock && !hasScarceVariant(p) {
			continue
		}
		if query.OutOfStock && !isOutOfStock(p) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func hasScarceVariant(p models.Product) bool {
	for _, v := range p.Variants {
		if v.StockQuantity > 0 && v.StockQuantity < lowStockThreshold {
			return true
		}
	}
	return false
}
