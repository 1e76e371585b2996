package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Anonymous cart line defaults
const (
	DefaultSize  = "One Size"
	DefaultColor = "Default"

	MinQuantity = 1
	MaxQuantity = 10
)

// CartItem is a persisted line of an authenticated cart, unique per (user, variant).
type CartItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_variant" json:"userId"`
	ProductVariantID uint            `gorm:"not null;uniqueIndex:idx_cart_user_variant" json:"productVariantId"`
	Variant          *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"variant,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// SessionCartItem is a line of an anonymous cart. It lives only in the session cart store.
type SessionCartItem struct {
	ID        string `json:"id" dynamodbav:"id"`
	ProductID uint   `json:"productId" dynamodbav:"product_id"`
	Quantity  int    `json:"quantity" dynamodbav:"quantity"`
	Size      string `json:"size" dynamodbav:"size"`
	Color     string `json:"color" dynamodbav:"color"`
}

// ProductSnapshot is the catalog data attached to a session cart line when it is read.
type ProductSnapshot struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Images    []ProductImage  `json:"images"`
	Brand     *Brand          `json:"brand"`
}

type EnrichedSessionCartItem struct {
	SessionCartItem
	Product ProductSnapshot `json:"product"`
}

// ClampQuantity forces q into [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
