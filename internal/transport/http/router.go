package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/handlers"
	"github.com/dokkan/bookstore/internal/handlers/admin"
	"github.com/dokkan/bookstore/internal/handlers/cart"
	"github.com/dokkan/bookstore/internal/handlers/checkout"
	"github.com/dokkan/bookstore/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	CatalogHandler  *handlers.CatalogHandler
	SearchHandler   *handlers.SearchHandler
	CartHandler     *cart.CartHandler
	CheckoutHandler *checkout.CheckoutHandler
	FavHandler      *handlers.FavoritesHandler
	AdminHandler    *admin.AdminHandler
	TokenService    *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	v1.GET("/products", d.CatalogHandler.GetProducts)
	v1.GET("/products/:slug", d.CatalogHandler.GetProductBySlug)
	v1.GET("/categories", d.CatalogHandler.GetCategories)
	v1.GET("/authors", d.CatalogHandler.GetAuthors)
	v1.GET("/search", d.SearchHandler.Search)

	v1.POST("/checkout", d.CheckoutHandler.Create, d.TokenService.OptionalAuth)

	account := v1.Group("/account", d.TokenService.RequireLogin)
	account.GET("", d.AuthHandler.GetAccount)
	account.PATCH("", d.AuthHandler.UpdateAccount)

	cartGroup := v1.Group("/cart", d.TokenService.RequireLogin)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.Mutate)
	cartGroup.DELETE("", d.CartHandler.Clear)

	favs := v1.Group("/favorites", d.TokenService.RequireLogin)
	favs.GET("", d.FavHandler.List)
	favs.POST("", d.FavHandler.Add)
	favs.DELETE("/:productId", d.FavHandler.Remove)

	adminGroup := v1.Group("/admin", d.TokenService.RequireAdmin)

	adminGroup.GET("/users", d.AdminHandler.ListUsers)
	adminGroup.PATCH("/users", d.AdminHandler.UpdateUserRole)

	adminGroup.GET("/categories", d.AdminHandler.ListCategories)
	adminGroup.POST("/categories", d.AdminHandler.CreateCategory)
	adminGroup.PATCH("/categories/:id", d.AdminHandler.UpdateCategory)
	adminGroup.DELETE("/categories/:id", d.AdminHandler.DeleteCategory)

	adminGroup.GET("/authors", d.AdminHandler.ListAuthors)
	adminGroup.POST("/authors", d.AdminHandler.CreateAuthor)
	adminGroup.PATCH("/authors/:id", d.AdminHandler.UpdateAuthor)
	adminGroup.DELETE("/authors/:id", d.AdminHandler.DeleteAuthor)

	adminGroup.GET("/products", d.AdminHandler.ListProducts)
	adminGroup.POST("/products", d.AdminHandler.CreateProduct)
	adminGroup.PATCH("/products/:id", d.AdminHandler.UpdateProduct)
	adminGroup.DELETE("/products/:id", d.AdminHandler.DeleteProduct)

	adminGroup.GET("/orders", d.AdminHandler.ListOrders)
	adminGroup.GET("/orders/:id", d.AdminHandler.GetOrder)
	adminGroup.PATCH("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)
}
