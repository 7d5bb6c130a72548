package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/service/token"
)

type FavoritesHandler struct {
	DB *gorm.DB
}

func (h *FavoritesHandler) List(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	favorites := []models.Favorite{}
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&favorites).Error; err != nil {
		c.Logger().Errorf("favorites list error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": favorites})
}

func (h *FavoritesHandler) Add(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	var req struct {
		Item struct {
			ProductID uint    `json:"productId"`
			Slug      string  `json:"slug"`
			Title     string  `json:"title"`
			Price     float64 `json:"price"`
			Image     string  `json:"image"`
		} `json:"item"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if req.Item.ProductID == 0 || req.Item.Slug == "" || req.Item.Title == "" {
		return httpx.BadRequest(c, "invalid favorite item")
	}

	var existing models.Favorite
	err := h.DB.Where("user_id = ? AND product_id = ?", userID, req.Item.ProductID).First(&existing).Error
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "already in favorites"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Logger().Errorf("favorites lookup error: %v", err)
		return httpx.ServerError(c)
	}

	fav := models.Favorite{
		UserID:    userID,
		ProductID: req.Item.ProductID,
		Slug:      req.Item.Slug,
		Title:     req.Item.Title,
		Price:     req.Item.Price,
		Image:     req.Item.Image,
	}
	if err := h.DB.Create(&fav).Error; err != nil {
		// unique index may win the race; same outcome for the caller
		return c.JSON(http.StatusOK, echo.Map{"message": "already in favorites"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "added to favorites"})
}

func (h *FavoritesHandler) Remove(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return httpx.BadRequest(c, "invalid product id")
	}

	if err := h.DB.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error; err != nil {
		c.Logger().Errorf("favorites delete error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed from favorites"})
}
