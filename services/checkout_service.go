package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/events"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

const publishTimeout = 5 * time.Second

// CheckoutService runs the simulated payment flow. Client secrets are fabricated
// and never sent to a payment provider.
type CheckoutService interface {
	CreateIntent(ctx context.Context, userID uuid.UUID) (*models.PaymentIntentResponse, error)
	CreateSessionIntent(ctx context.Context, items []models.SessionPaymentItem) (*models.PaymentIntentResponse, error)
	Confirm(ctx context.Context, userID uuid.UUID) (*models.Order, error)
}

type checkoutServiceImpl struct {
	carts     repository.CartRepository
	tx        repository.Transactor
	publisher events.Publisher
	metrics   aws_pkg.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(
	carts repository.CartRepository,
	tx repository.Transactor,
	publisher events.Publisher,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) CheckoutService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &checkoutServiceImpl{
		carts:     carts,
		tx:        tx,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// cartTotal sums variant price times quantity. A missing price counts as zero.
func cartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(linePrice(item).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func linePrice(item models.CartItem) decimal.Decimal {
	if item.Variant == nil {
		return decimal.Zero
	}
	return item.Variant.UnitPrice()
}

func (s *checkoutServiceImpl) CreateIntent(ctx context.Context, userID uuid.UUID) (*models.PaymentIntentResponse, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Upstream("list cart", err)
	}
	if len(items) == 0 {
		return nil, apperrors.EmptyCart()
	}

	return &models.PaymentIntentResponse{
		ClientSecret: fmt.Sprintf("fake_cs_%d", s.now().UnixMilli()),
		Amount:       cartTotal(items),
	}, nil
}

// CreateSessionIntent prices a cart snapshot supplied by an anonymous caller.
// The submitted prices are trusted as is.
func (s *checkoutServiceImpl) CreateSessionIntent(_ context.Context, items []models.SessionPaymentItem) (*models.PaymentIntentResponse, error) {
	if len(items) == 0 {
		return nil, apperrors.EmptyCart()
	}

	amount := decimal.Zero
	for _, item := range items {
		amount = amount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return &models.PaymentIntentResponse{
		ClientSecret: fmt.Sprintf("fake_cs_session_%d", s.now().UnixMilli()),
		Amount:       amount,
	}, nil
}

// Confirm turns the cart into a paid order in one transaction: order and items
// are created, each variant's stock is decremented with no floor check, and the
// cart is emptied. Any failure rolls the whole unit back.
func (s *checkoutServiceImpl) Confirm(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := s.tx.Transaction(ctx, func(repos repository.Repositories) error {
		items, err := repos.Carts.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("list cart: %w", err)
		}
		if len(items) == 0 {
			return apperrors.EmptyCart()
		}

		order = s.buildOrder(userID, items)
		if err := repos.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range items {
			if err := repos.Variants.DecrementStock(ctx, item.ProductVariantID, item.Quantity); err != nil {
				return fmt.Errorf("decrement stock of variant %d: %w", item.ProductVariantID, err)
			}
		}

		if err := repos.Carts.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyCart) {
			return nil, apperrors.EmptyCart()
		}
		return nil, apperrors.Upstream("confirm order", err)
	}

	s.logger.Info("Order confirmed",
		zap.String("user_id", userID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.String()),
	)
	s.afterConfirm(ctx, order)
	return order, nil
}

func (s *checkoutServiceImpl) buildOrder(userID uuid.UUID, items []models.CartItem) *models.Order {
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		unit := linePrice(item)
		orderItems = append(orderItems, models.OrderItem{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			UnitPrice:        unit,
			TotalPrice:       unit.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	return &models.Order{
		UserID:        userID,
		OrderNumber:   fmt.Sprintf("ORD-%d", s.now().UnixMilli()),
		TotalAmount:   cartTotal(items),
		Status:        models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
		Items:         orderItems,
	}
}

// afterConfirm publishes the order event and metrics. Failures are logged only:
// the order is already committed.
func (s *checkoutServiceImpl) afterConfirm(ctx context.Context, order *models.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderConfirmed(pubCtx, events.NewOrderConfirmedEvent(order)); err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	revenue := order.TotalAmount.InexactFloat64()
	recordMetric(s.metrics, s.logger, aws_pkg.MetricOrdersCreated, func(ctx context.Context, r aws_pkg.MetricsRecorder) error {
		if err := r.RecordCount(ctx, aws_pkg.MetricOrdersCreated, nil); err != nil {
			return err
		}
		return r.RecordValue(ctx, aws_pkg.MetricOrderRevenue, revenue, nil)
	})
}
