package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/models"
)

// VariantRepository defines the interface for product variant data access.
type VariantRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ProductVariant, error)
	Create(ctx context.Context, variant *models.ProductVariant) error
	SetStock(ctx context.Context, id uint, quantity int) (*models.ProductVariant, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
	Totals(ctx context.Context) (*VariantTotals, error)
	RecentlyUpdated(ctx context.Context, since time.Time, limit int) ([]models.ProductVariant, error)
}

// GormVariantRepository implements VariantRepository using GORM.
type GormVariantRepository struct {
	db *gorm.DB
}

func NewGormVariantRepository(db *gorm.DB) VariantRepository {
	return &GormVariantRepository{db: db}
}

func (r *GormVariantRepository) FindByID(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormVariantRepository) Create(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// SetStock overwrites the stock level and returns the variant with its product and brand.
func (r *GormVariantRepository) SetStock(ctx context.Context, id uint, quantity int) (*models.ProductVariant, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"stock_quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product.Brand").
		First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// DecrementStock subtracts quantity with a relative update. There is no floor:
// stock may go negative.
func (r *GormVariantRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// VariantTotals aggregates stock over every variant. LowStock counts variants
// with 1 to 9 units left.
type VariantTotals struct {
	Variants   int64
	Stock      int64
	LowStock   int64
	OutOfStock int64
}

func (r *GormVariantRepository) Totals(ctx context.Context) (*VariantTotals, error) {
	var totals VariantTotals
	err := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Select(`COUNT(*) AS variants,
			COALESCE(SUM(stock_quantity), 0) AS stock,
			COALESCE(SUM(CASE WHEN stock_quantity > 0 AND stock_quantity < 10 THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN stock_quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *GormVariantRepository) RecentlyUpdated(ctx context.Context, since time.Time, limit int) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product.Brand").
		Where("updated_at >= ?", since).
		Order("updated_at DESC").
		Limit(limit).
		Find(&variants).Error
	return variants, err
}
