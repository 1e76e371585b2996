package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusConfirmed = "confirmed"
	PaymentStatusPaid    = "paid"
)

// Order is created once at checkout confirmation and never updated.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	OrderNumber   string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	PaymentStatus string          `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// OrderItem freezes the price paid so later catalog changes do not alter history.
type OrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderID          uint            `gorm:"not null;index" json:"orderId"`
	ProductVariantID uint            `gorm:"not null;index" json:"productVariantId"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
}

// OrderConfirmedEvent is published after a checkout commits.
type OrderConfirmedEvent struct {
	Event       string           `json:"event"`
	OrderID     uint             `json:"orderId"`
	OrderNumber string           `json:"orderNumber"`
	UserID      string           `json:"userId"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	Items       []OrderEventItem `json:"items"`
	Timestamp   time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	ProductVariantID uint `json:"productVariantId"`
	Quantity         int  `json:"quantity"`
}
