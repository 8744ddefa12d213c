package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/controllers"
	"github.com/freshcatch/backend/middleware"
	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/services"
)

// Controllers bundles every handler group for route registration.
type Controllers struct {
	Auth    *controllers.AuthController
	Users   *controllers.UserController
	Catalog *controllers.CatalogController
	Cart    *controllers.CartController
	Orders  *controllers.OrderController
	Vendors *controllers.VendorController
	Admin   *controllers.AdminController
}

// Register wires the full /api/v1 surface onto the engine.
func Register(router *gin.Engine, ctrl *Controllers, tokens *services.TokenService) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", middleware.Authenticate(tokens), ctrl.Auth.Logout)
		auth.GET("/me", middleware.Authenticate(tokens), ctrl.Auth.Me)
		auth.PUT("/password", middleware.Authenticate(tokens), ctrl.Auth.UpdatePassword)
		auth.DELETE("/deactivate", middleware.Authenticate(tokens), ctrl.Auth.Deactivate)
	}

	users := v1.Group("/users/me", middleware.Authenticate(tokens))
	{
		users.GET("", ctrl.Users.GetProfile)
		users.PUT("", ctrl.Users.UpdateProfile)
		users.GET("/addresses", ctrl.Users.ListAddresses)
		users.POST("/addresses", ctrl.Users.AddAddress)
		users.PUT("/addresses/:addressId", ctrl.Users.UpdateAddress)
		users.DELETE("/addresses/:addressId", ctrl.Users.DeleteAddress)
	}

	products := v1.Group("/products", middleware.OptionalAuth(tokens))
	{
		products.GET("", ctrl.Catalog.ListProducts)
		products.GET("/categories", ctrl.Catalog.Categories)
		products.GET("/featured", ctrl.Catalog.Featured)
		products.GET("/:productId", ctrl.Catalog.GetProduct)
	}

	publicVendors := v1.Group("/vendors", middleware.OptionalAuth(tokens))
	{
		publicVendors.GET("", ctrl.Catalog.ListVendors)
		publicVendors.GET("/:vendorId", ctrl.Catalog.GetVendor)
		publicVendors.GET("/:vendorId/products", ctrl.Catalog.VendorProducts)
	}

	cart := v1.Group("/cart", middleware.Authenticate(tokens), middleware.RequireRole(models.RoleCustomer))
	{
		cart.GET("", ctrl.Cart.Get)
		cart.GET("/summary", ctrl.Cart.Summary)
		cart.GET("/validate", ctrl.Cart.Validate)
		cart.POST("/add", ctrl.Cart.AddItem)
		cart.PUT("/sync-prices", ctrl.Cart.SyncPrices)
		cart.PUT("/items/:productId", ctrl.Cart.UpdateItem)
		cart.DELETE("/items/:productId", ctrl.Cart.RemoveItem)
		cart.DELETE("/clear", ctrl.Cart.Clear)
	}

	orders := v1.Group("/orders", middleware.Authenticate(tokens))
	{
		customer := orders.Group("", middleware.RequireRole(models.RoleCustomer))
		{
			customer.POST("", ctrl.Orders.Create)
			customer.GET("", ctrl.Orders.List)
			customer.GET("/stats", ctrl.Orders.Stats)
			customer.GET("/:orderId", ctrl.Orders.Get)
			customer.PATCH("/:orderId/cancel", ctrl.Orders.Cancel)
			customer.POST("/:orderId/rate", ctrl.Orders.Rate)
		}

		vendor := orders.Group("/vendor", middleware.RequireRole(models.RoleVendor))
		{
			vendor.GET("/orders", ctrl.Orders.VendorList)
			vendor.PATCH("/:orderId/status", ctrl.Orders.VendorUpdateStatus)
		}
	}

	vendor := v1.Group("/vendor", middleware.Authenticate(tokens), middleware.RequireRole(models.RoleVendor))
	{
		vendor.GET("/profile", ctrl.Vendors.GetProfile)
		vendor.POST("/profile", ctrl.Vendors.CreateProfile)
		vendor.PUT("/profile", ctrl.Vendors.UpdateProfile)
		vendor.PATCH("/toggle-open", ctrl.Vendors.ToggleOpen)
		vendor.GET("/dashboard", ctrl.Vendors.Dashboard)
		vendor.GET("/products", ctrl.Vendors.ListProducts)
		vendor.POST("/products", ctrl.Vendors.CreateProduct)
		vendor.PUT("/products/:productId", ctrl.Vendors.UpdateProduct)
		vendor.PATCH("/products/:productId/stock", ctrl.Vendors.UpdateStock)
		vendor.DELETE("/products/:productId", ctrl.Vendors.DeleteProduct)
	}

	admin := v1.Group("/admin", middleware.Authenticate(tokens), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", ctrl.Admin.Dashboard)
		admin.GET("/vendors", ctrl.Admin.ListVendors)
		admin.GET("/vendors/:vendorId", ctrl.Admin.GetVendorDetails)
		admin.PATCH("/vendors/:vendorId/verify", ctrl.Admin.VerifyVendor)
		admin.PATCH("/vendors/:vendorId/reject", ctrl.Admin.RejectVendor)
		admin.GET("/users", ctrl.Admin.ListUsers)
		admin.PATCH("/users/:userId/status", ctrl.Admin.ToggleUserStatus)
	}
}
