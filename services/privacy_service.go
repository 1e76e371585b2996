package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

// PrivacyService exports and erases a user's personal data.
type PrivacyService interface {
	Export(ctx context.Context, userID uuid.UUID) (*models.PrivacyExport, error)
	Erase(ctx context.Context, userID uuid.UUID) error
}

type privacyServiceImpl struct {
	users  repository.UserRepository
	orders repository.OrderRepository
	tx     repository.Transactor
	logger *zap.Logger
}

func NewPrivacyService(users repository.UserRepository, orders repository.OrderRepository, tx repository.Transactor, logger *zap.Logger) PrivacyService {
	return &privacyServiceImpl{users: users, orders: orders, tx: tx, logger: logger}
}

func (s *privacyServiceImpl) Export(ctx context.Context, userID uuid.UUID) (*models.PrivacyExport, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "find user", "User not found")
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Upstream("list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &models.PrivacyExport{User: user, Orders: orders}, nil
}

// Erase deletes order items, orders, cart rows and the user in one transaction.
func (s *privacyServiceImpl) Erase(ctx context.Context, userID uuid.UUID) error {
	err := s.tx.Transaction(ctx, func(repos repository.Repositories) error {
		if err := repos.Orders.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete orders: %w", err)
		}
		if err := repos.Carts.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		if err := repos.Users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return repoError(err, "erase user data", "User not found")
	}
	s.logger.Info("User data erased", zap.String("user_id", userID.String()))
	return nil
}
