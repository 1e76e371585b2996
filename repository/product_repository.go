package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashrajoria/sneakershop/models"
)

// ProductFilter narrows catalog listings. Empty fields do not filter.
type ProductFilter struct {
	Query      string
	Brand      string
	ActiveOnly bool
	Offset     int
	Limit      int
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindWithVariants(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	ListForInventory(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query, brand string) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func primaryImages(db *gorm.DB) *gorm.DB {
	return db.Where("is_primary = ?", true)
}

func variantsByID(db *gorm.DB) *gorm.DB {
	return db.Order("product_variants.id ASC")
}

func (r *GormProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("LEFT JOIN brands ON brands.id = products.brand_id")

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("products.name ILIKE ?", like)
	}
	if filter.Brand != "" {
		query = query.Where("brands.name ILIKE ?", filter.Brand)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Images").
		Preload("Variants", variantsByID).
		Preload("Brand").
		Order("products.created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByID loads a product with all images, variants and brand.
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Variants", variantsByID).
		Preload("Brand").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindWithVariants loads a product with its variants ordered by id, its primary
// images and its brand. It backs cart enrichment and merge.
func (r *GormProductRepository) FindWithVariants(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", primaryImages).
		Preload("Variants", variantsByID).
		Preload("Brand").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update writes the product columns only; associations are left untouched.
func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormProductRepository) ListForInventory(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Variants", variantsByID).
		Preload("Images", primaryImages).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// Search matches query against product name, product sku and brand name.
func (r *GormProductRepository) Search(ctx context.Context, query, brand string) ([]models.Product, error) {
	var products []models.Product

	db := r.db.WithContext(ctx).
		Joins("LEFT JOIN brands ON brands.id = products.brand_id")
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("products.name ILIKE ? OR products.sku ILIKE ? OR brands.name ILIKE ?", like, like, like)
	}
	if brand != "" {
		db = db.Where("brands.name ILIKE ?", "%"+brand+"%")
	}

	err := db.
		Preload("Brand").
		Preload("Variants", variantsByID).
		Preload("Images", primaryImages).
		Order("products.name ASC").
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}
