package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:120" json:"slug,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"not null;index" json:"name"`
	Description string           `json:"description,omitempty"`
	BasePrice   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"basePrice"`
	SKU         *string          `gorm:"uniqueIndex" json:"sku,omitempty"`
	BrandID     *uint            `json:"brandId,omitempty"`
	Brand       *Brand           `json:"brand,omitempty"`
	IsActive    bool             `gorm:"not null" json:"isActive"`
	Images      []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variants    []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BasePriceOrZero is the product base price, or zero when none is set.
func (p *Product) BasePriceOrZero() decimal.Decimal {
	if p.BasePrice == nil {
		return decimal.Zero
	}
	return *p.BasePrice
}

// PrimaryImages returns the images flagged primary.
func (p *Product) PrimaryImages() []ProductImage {
	out := []ProductImage{}
	for _, img := range p.Images {
		if img.IsPrimary {
			out = append(out, img)
		}
	}
	return out
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"productId"`
	ImageURL  string `gorm:"not null" json:"imageUrl"`
	AltText   string `json:"altText,omitempty"`
	IsPrimary bool   `gorm:"not null" json:"isPrimary"`
}

// ProductVariant is a purchasable size/color/price/stock combination.
// StockQuantity is not floored: checkout may drive it negative.
type ProductVariant struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ProductID     uint             `gorm:"not null;index" json:"productId"`
	Product       *Product         `json:"product,omitempty"`
	Size          *float64         `gorm:"type:numeric(4,1)" json:"size"`
	Color         *string          `gorm:"size:64" json:"color"`
	Price         *decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	StockQuantity int              `gorm:"not null" json:"stockQuantity"`
	SKU           string           `gorm:"uniqueIndex;not null" json:"sku"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

// UnitPrice is the variant price, or zero when none is set. Checkout does not
// fall back to the product base price.
func (v *ProductVariant) UnitPrice() decimal.Decimal {
	if v.Price == nil {
		return decimal.Zero
	}
	return *v.Price
}

