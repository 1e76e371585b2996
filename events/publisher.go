package events

import (
	"context"

	"github.com/yashrajoria/sneakershop/models"
)

// EventOrderConfirmed names the event emitted after a checkout commits.
const EventOrderConfirmed = "order.confirmed"

// Publisher delivers domain events to the configured bus.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, event models.OrderConfirmedEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderConfirmed(context.Context, models.OrderConfirmedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// NewOrderConfirmedEvent builds the event payload for a committed order.
func NewOrderConfirmedEvent(order *models.Order) models.OrderConfirmedEvent {
	items := make([]models.OrderEventItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, models.OrderEventItem{
			ProductVariantID: it.ProductVariantID,
			Quantity:         it.Quantity,
		})
	}
	return models.OrderConfirmedEvent{
		Event:       EventOrderConfirmed,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		TotalAmount: order.TotalAmount,
		Items:       items,
		Timestamp:   order.CreatedAt,
	}
}
