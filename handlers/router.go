package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Products *ProductHandler
	Category *CategoryHandler
	Orders   *OrderHandler
	Sales    *SaleHandler
	Account  *AccountHandler
	Auth     AuthConfig
}

// NewRouter assembles the storefront and admin API surface.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	apiV1 := router.Group("/api/v1")

	// storefront
	apiV1.GET("/products", deps.Products.ListProducts)
	apiV1.GET("/products/:id", deps.Products.GetProductByID)
	apiV1.GET("/categories", deps.Category.ListCategories)
	apiV1.GET("/categories/:id", deps.Category.GetCategoryByID)
	apiV1.GET("/sales", deps.Sales.ListActiveSales)

	// checkout
	apiV1.POST("/orders", deps.Orders.CreateOrder)
	apiV1.GET("/orders", deps.Orders.ListOrders)
	apiV1.GET("/orders/:id", deps.Orders.GetOrderByID)

	// account
	apiV1.GET("/users/:id/wishlist", deps.Account.GetWishlist)
	apiV1.POST("/users/:id/wishlist", deps.Account.AddToWishlist)
	apiV1.DELETE("/users/:id/wishlist/:productId", deps.Account.RemoveFromWishlist)
	apiV1.GET("/users/:id/cart", deps.Account.GetCart)
	apiV1.PUT("/users/:id/cart", deps.Account.ReplaceCart)

	// admin dashboard
	admin := apiV1.Group("/admin", deps.Auth.AdminRequired())
	admin.POST("/categories", deps.Category.CreateCategory)
	admin.PUT("/categories/:id", deps.Category.UpdateCategory)
	admin.DELETE("/categories/:id", deps.Category.DeleteCategory)
	admin.POST("/products", deps.Products.CreateProduct)
	admin.PUT("/products/:id", deps.Products.UpdateProduct)
	admin.DELETE("/products/:id", deps.Products.DeleteProduct)
	admin.POST("/sales", deps.Sales.CreateSale)
	admin.PUT("/sales/:id", deps.Sales.UpdateSale)
	admin.DELETE("/sales/:id", deps.Sales.DeleteSale)
	admin.PUT("/orders/:id/status", deps.Orders.UpdateOrderStatus)

	return router
}
