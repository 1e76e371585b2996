package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

type OrderService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type orderServiceImpl struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderServiceImpl{orders: orders}
}

// List returns the user's orders with their items, newest first.
func (s *orderServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Upstream("list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
