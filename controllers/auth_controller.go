package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/middleware"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

// CookieConfig describes the session token cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AuthController struct {
	authService services.AuthService
	cookie      CookieConfig
}

func NewAuthController(authService services.AuthService, cookie CookieConfig) *AuthController {
	return &AuthController{authService: authService, cookie: cookie}
}

func (ac *AuthController) setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(ac.cookie.Name, token, maxAge, "/", "", ac.cookie.Secure, true)
}

func identityResponse(user *models.User) models.Identity {
	return models.Identity{ID: user.ID, Email: user.Email, Role: user.Role}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	user, token, err := ac.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ac.setTokenCookie(ctx, token, int(ac.cookie.MaxAge.Seconds()))
	ctx.JSON(http.StatusOK, identityResponse(user))
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	user, token, err := ac.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ac.setTokenCookie(ctx, token, int(ac.cookie.MaxAge.Seconds()))
	ctx.JSON(http.StatusOK, identityResponse(user))
}

// Logout handles POST /auth/logout.
func (ac *AuthController) Logout(ctx *gin.Context) {
	ac.setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me handles GET /auth/me. It answers from the token without a database read.
func (ac *AuthController) Me(ctx *gin.Context) {
	identity, err := middleware.GetIdentity(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	ctx.JSON(http.StatusOK, identity)
}
