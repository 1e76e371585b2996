package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
}

type userServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{users: users, logger: logger}
}

func (s *userServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "find user", "User not found")
	}
	return user, nil
}

func (s *userServiceImpl) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Upstream("list users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *userServiceImpl) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid role")
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, repoError(err, "update role", "User not found")
	}
	s.logger.Info("User role changed", zap.String("user_id", id.String()), zap.String("role", string(role)))
	return s.Get(ctx, id)
}
