package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yashrajoria/sneakershop/models"
)

const (
	TokenIssuer     = "sneakershop-api"
	TokenAudience   = "sneakershop-client"
	tokenTypeAccess = "access"
)

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(user *models.User) (string, error)
	Validate(tokenStr string) (*models.Identity, error)
}

type jwtTokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenService creates an HS256 token service.
func NewTokenService(secret string, ttl time.Duration) TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &jwtTokenService{secretKey: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *jwtTokenService) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"typ":   tokenTypeAccess,
		"iss":   TokenIssuer,
		"aud":   TokenAudience,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate checks signature, expiry, issuer, audience and token type, and
// returns the identity the token carries.
func (s *jwtTokenService) Validate(tokenStr string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !claims.VerifyIssuer(TokenIssuer, true) || !claims.VerifyAudience(TokenAudience, true) {
		return nil, fmt.Errorf("invalid token issuer or audience")
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeAccess {
		return nil, fmt.Errorf("invalid token type")
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject")
	}
	role := models.Role(fmt.Sprint(claims["role"]))
	if !role.Valid() {
		return nil, fmt.Errorf("invalid token role")
	}
	email, _ := claims["email"].(string)

	return &models.Identity{ID: id, Email: email, Role: role}, nil
}
