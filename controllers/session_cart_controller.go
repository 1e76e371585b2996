package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/services"
)

const (
	SessionCookieName   = "sessionId"
	SessionHeader       = "X-Session-ID"
	sessionCookieMaxAge = 24 * 60 * 60
)

// SessionCartController serves the anonymous cart.
type SessionCartController struct {
	sessionCartService services.SessionCartService
	secureCookie       bool
}

func NewSessionCartController(sessionCartService services.SessionCartService, secureCookie bool) *SessionCartController {
	return &SessionCartController{sessionCartService: sessionCartService, secureCookie: secureCookie}
}

// clientSessionID returns the session id sent by the client: the cookie first,
// then the X-Session-ID header. It is empty when neither is present.
func clientSessionID(ctx *gin.Context) string {
	if v, err := ctx.Cookie(SessionCookieName); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(ctx.GetHeader(SessionHeader))
}

// resolveSessionID falls back to a freshly minted id and sets the session cookie.
func (sc *SessionCartController) resolveSessionID(ctx *gin.Context) string {
	sessionID := clientSessionID(ctx)
	if sessionID == "" {
		sessionID = services.NewSessionID()
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", sc.secureCookie, true)
	return sessionID
}

// GetCart handles GET /cart-session.
func (sc *SessionCartController) GetCart(ctx *gin.Context) {
	sessionID := sc.resolveSessionID(ctx)

	items, err := sc.sessionCartService.Get(ctx.Request.Context(), sessionID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.SessionCartResponse{Items: items, SessionID: sessionID})
}

// AddItem handles POST /cart-session.
func (sc *SessionCartController) AddItem(ctx *gin.Context) {
	sessionID := sc.resolveSessionID(ctx)

	var req models.AddSessionCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	_, count, err := sc.sessionCartService.Add(ctx.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.AddSessionCartItemResponse{
		Success:   true,
		Message:   "Added to cart",
		SessionID: sessionID,
		CartCount: count,
	})
}

// RemoveItem handles DELETE /cart-session/:itemId. Unknown ids succeed.
func (sc *SessionCartController) RemoveItem(ctx *gin.Context) {
	sessionID := sc.resolveSessionID(ctx)

	if err := sc.sessionCartService.Remove(ctx.Request.Context(), sessionID, ctx.Param("itemId")); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.SessionCartAckResponse{Success: true, Message: "Item removed from cart"})
}

// UpdateItem handles PUT /cart-session/:itemId. The quantity is clamped, never rejected.
func (sc *SessionCartController) UpdateItem(ctx *gin.Context) {
	sessionID := sc.resolveSessionID(ctx)

	var req models.UpdateSessionCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
		return
	}

	err := sc.sessionCartService.SetQuantity(ctx.Request.Context(), sessionID, ctx.Param("itemId"), req.Quantity.Int())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.SessionCartAckResponse{Success: true, Message: "Cart updated"})
}
