package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

const msgInvalidCredentials = "Invalid credentials"

// AuthService registers and authenticates users. Both operations return the
// user and a freshly issued session token.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error)
}

type authServiceImpl struct {
	users      repository.UserRepository
	tokens     TokenService
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens TokenService, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	email := normalizeEmail(req.Email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", apperrors.Conflict("Email already used")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.Upstream("find user by email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.Upstream("hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.Conflict("Email already used")
		}
		return nil, "", apperrors.Upstream("create user", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", apperrors.Upstream("issue token", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, "", apperrors.Upstream("find user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperrors.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", apperrors.Upstream("issue token", err)
	}
	return user, token, nil
}
