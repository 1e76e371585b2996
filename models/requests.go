package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// prices render as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// FlexInt accepts a JSON number or a numeric string, e.g. 7 or "7".
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || fl != math.Trunc(fl) || math.IsInf(fl, 0) {
			return fmt.Errorf("%q is not an integer", s)
		}
		// out of range values saturate so clamping picks the nearest bound
		switch {
		case fl >= math.MaxInt64:
			n = math.MaxInt64
		case fl <= math.MinInt64:
			n = math.MinInt64
		default:
			n = int64(fl)
		}
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// Anonymous cart

type AddSessionCartItemRequest struct {
	ProductID *FlexInt `json:"productId" binding:"required"`
	Quantity  *FlexInt `json:"quantity" binding:"required"`
	Size      *string  `json:"size"`
	Color     *string  `json:"color"`
}

type UpdateSessionCartItemRequest struct {
	Quantity *FlexInt `json:"quantity" binding:"required"`
}

type SessionCartResponse struct {
	Items     []EnrichedSessionCartItem `json:"items"`
	SessionID string                    `json:"sessionId"`
}

type AddSessionCartItemResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	CartCount int    `json:"cartCount"`
}

type SessionCartAckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Authenticated cart

type UpsertCartItemRequest struct {
	ProductVariantID uint `json:"productVariantId" binding:"required"`
	Quantity         int  `json:"quantity" binding:"required"`
}

// SyncCartItem is one anonymous line submitted at login. Only productId and
// quantity drive the merge; size and color are carried but not matched.
type SyncCartItem struct {
	ID        string  `json:"id"`
	ProductID FlexInt `json:"productId"`
	Quantity  FlexInt `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

type SyncCartRequest struct {
	SessionCartItems *[]SyncCartItem `json:"sessionCartItems" binding:"required"`
}

type SyncCartResponse struct {
	Message     string     `json:"message"`
	Cart        []CartItem `json:"cart"`
	SyncedItems int        `json:"syncedItems"`
}

// Payments

type SessionPaymentItem struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type SessionPaymentRequest struct {
	CartItems []SessionPaymentItem `json:"cartItems"`
}

type PaymentIntentResponse struct {
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
}

type ConfirmPaymentResponse struct {
	OK    bool   `json:"ok"`
	Order *Order `json:"order"`
}

// Identity

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"omitempty,max=100"`
	LastName  string `json:"lastName" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=customer moderator admin"`
}

// Catalog

type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=2"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"basePrice"`
	SKU         *string          `json:"sku"`
	BrandID     *uint            `json:"brandId"`
	IsActive    *bool            `json:"isActive"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=2"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"basePrice"`
	SKU         *string          `json:"sku"`
	BrandID     *uint            `json:"brandId"`
	IsActive    *bool            `json:"isActive"`
}

type ProductQuery struct {
	Q        string `form:"q"`
	Brand    string `form:"brand"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

type ProductListResponse struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

// Inventory

type SetStockRequest struct {
	VariantID     uint `json:"variantId" binding:"required"`
	StockQuantity *int `json:"stockQuantity" binding:"required,gte=0"`
}

type InventorySearchQuery struct {
	Q          string `form:"q"`
	Brand      string `form:"brand"`
	LowStock   bool   `form:"lowStock"`
	OutOfStock bool   `form:"outOfStock"`
}

type InventoryStats struct {
	TotalProducts      int64 `json:"totalProducts"`
	TotalVariants      int64 `json:"totalVariants"`
	TotalStock         int64 `json:"totalStock"`
	LowStockProducts   int   `json:"lowStockProducts"`
	OutOfStockProducts int   `json:"outOfStockProducts"`
}

type InventoryOverview struct {
	Products []Product      `json:"products"`
	Stats    InventoryStats `json:"stats"`
}

// StockStats summarizes stock per variant. RecentUpdates holds the variants
// touched in the last 7 days, newest first.
type StockStats struct {
	TotalProducts      int64            `json:"totalProducts"`
	TotalVariants      int64            `json:"totalVariants"`
	TotalStock         int64            `json:"totalStock"`
	LowStockVariants   int64            `json:"lowStockVariants"`
	OutOfStockVariants int64            `json:"outOfStockVariants"`
	RecentUpdates      []ProductVariant `json:"recentUpdates"`
}

type SetStockResponse struct {
	Message string          `json:"message"`
	Variant *ProductVariant `json:"variant"`
}

// Privacy

type PrivacyExport struct {
	User   *User   `json:"user"`
	Orders []Order `json:"orders"`
}
