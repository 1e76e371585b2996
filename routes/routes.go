package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/sneakershop/controllers"
	"github.com/yashrajoria/sneakershop/middleware"
	"github.com/yashrajoria/sneakershop/models"
)

// Controllers bundles every HTTP controller mounted under /api.
type Controllers struct {
	Auth        *controllers.AuthController
	Users       *controllers.UserController
	Products    *controllers.ProductController
	SessionCart *controllers.SessionCartController
	Cart        *controllers.CartController
	CartSync    *controllers.CartSyncController
	Payments    *controllers.PaymentController
	Inventory   *controllers.InventoryController
	Orders      *controllers.OrderController
	Privacy     *controllers.PrivacyController
}

// RegisterRoutes mounts the API under /api. auth guards every authenticated route.
func RegisterRoutes(r *gin.Engine, c Controllers, auth gin.HandlerFunc, authLimit gin.HandlerFunc) {
	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authLimit, c.Auth.Register)
	authRoutes.POST("/login", authLimit, c.Auth.Login)
	authRoutes.POST("/logout", c.Auth.Logout)
	authRoutes.GET("/me", auth, c.Auth.Me)

	userRoutes := api.Group("/users", auth)
	userRoutes.GET("/me", c.Users.Me)
	userRoutes.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleModerator), c.Users.ListUsers)
	userRoutes.POST("/:id/role", middleware.RequireRole(models.RoleAdmin), c.Users.UpdateRole)

	productRoutes := api.Group("/products")
	productRoutes.GET("", c.Products.ListProducts)
	productRoutes.GET("/:id", c.Products.GetProduct)
	editors := middleware.RequireRole(models.RoleAdmin, models.RoleModerator)
	productRoutes.POST("", auth, editors, c.Products.CreateProduct)
	productRoutes.PUT("/:id", auth, editors, c.Products.UpdateProduct)
	productRoutes.DELETE("/:id", auth, middleware.RequireRole(models.RoleAdmin), c.Products.DeleteProduct)

	sessionCart := api.Group("/cart-session")
	sessionCart.GET("", c.SessionCart.GetCart)
	sessionCart.POST("", c.SessionCart.AddItem)
	sessionCart.DELETE("/:itemId", c.SessionCart.RemoveItem)
	sessionCart.PUT("/:itemId", c.SessionCart.UpdateItem)

	cart := api.Group("/cart", auth)
	cart.GET("", c.Cart.GetCart)
	cart.POST("", c.Cart.UpsertItem)
	cart.DELETE("/:variantId", c.Cart.RemoveItem)

	api.POST("/cart-sync/sync", auth, c.CartSync.Sync)

	payments := api.Group("/payments")
	payments.POST("/create", auth, c.Payments.CreateIntent)
	payments.POST("/create-session", c.Payments.CreateSessionIntent)
	payments.POST("/confirm", auth, c.Payments.Confirm)

	inventory := api.Group("/inventory", auth, middleware.AdminOnly())
	inventory.GET("/products", c.Inventory.GetProducts)
	inventory.PUT("/stock", c.Inventory.UpdateStock)
	inventory.GET("/stats", c.Inventory.GetStats)
	inventory.GET("/search", c.Inventory.Search)

	api.GET("/orders", auth, c.Orders.ListOrders)

	privacy := api.Group("/privacy", auth)
	privacy.GET("/export", c.Privacy.Export)
	privacy.DELETE("/erase", c.Privacy.Erase)
}
