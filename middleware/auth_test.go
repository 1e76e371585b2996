package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yashrajoria/sneakershop/middleware"
	"github.com/yashrajoria/sneakershop/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	tokens map[string]*models.Identity
}

func (s stubValidator) Validate(token string) (*models.Identity, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid token")
}

var (
	adminID    = uuid.New()
	customerID = uuid.New()
	validator  = stubValidator{tokens: map[string]*models.Identity{
		"admin-token":    {ID: adminID, Email: "admin@example.com", Role: models.RoleAdmin},
		"customer-token": {ID: customerID, Email: "c@example.com", Role: models.RoleCustomer},
	}}
)

func setupAuthRouter(guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(validator, "jwt")}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		id, err := middleware.GetUserID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id.String()})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthRouter()

	tests := []struct {
		name   string
		cookie string
		header string
		code   int
		body   string
	}{
		{"missing token", "", "", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"invalid cookie", "bogus", "", http.StatusUnauthorized, `{"error":"Invalid token"}`},
		{"valid cookie", "customer-token", "", http.StatusOK, `{"userId":"` + customerID.String() + `"}`},
		{"bearer header", "", "Bearer admin-token", http.StatusOK, `{"userId":"` + adminID.String() + `"}`},
		{"cookie wins over header", "customer-token", "Bearer admin-token", http.StatusOK, `{"userId":"` + customerID.String() + `"}`},
		{"non bearer scheme", "", "Basic admin-token", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	auth := middleware.AuthMiddleware(validator, "jwt")
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/editors", auth, middleware.RequireRole(models.RoleAdmin, models.RoleModerator), ok)
	r.GET("/admin", auth, middleware.AdminOnly(), ok)
	r.GET("/unguarded", middleware.AdminOnly(), ok)

	tests := []struct {
		path  string
		token string
		code  int
		body  string
	}{
		{"/editors", "admin-token", http.StatusNoContent, ""},
		{"/editors", "customer-token", http.StatusForbidden, `{"error":"Forbidden"}`},
		{"/admin", "admin-token", http.StatusNoContent, ""},
		{"/admin", "customer-token", http.StatusForbidden, `{"error":"Access denied. Admin role required."}`},
		{"/unguarded", "", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tt.code, w.Code, tt.path+" "+tt.token)
		if tt.body != "" {
			assert.JSONEq(t, tt.body, w.Body.String())
		}
	}
}
