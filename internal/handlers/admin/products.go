package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/service/search"
	"github.com/dokkan/bookstore/internal/util"
	"github.com/dokkan/bookstore/internal/validation"
)

type productRequest struct {
	Title       string  `json:"title"       validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Currency    string  `json:"currency"`
	Image       string  `json:"image"       validate:"omitempty,url"`
	Tags        string  `json:"tags"`
	Stock       uint    `json:"stock"`
	IsActive    *bool   `json:"isActive"`
	CategoryID  *uint   `json:"categoryId"`
	AuthorID    *uint   `json:"authorId"`
}

// indexProduct pushes the document into elasticsearch best-effort.
func (h *AdminHandler) indexProduct(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		c.Logger().Errorf("es index error: %v", err)
	}
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Product{})
	if q := c.QueryParam("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(slug) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return httpx.ServerError(c)
	}

	products := []models.Product{}
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return httpx.ServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"products": products,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	slug, err := util.UniqueSlug(req.Title, h.slugTaken(&models.Product{}))
	if err != nil {
		return httpx.ServerError(c)
	}

	currency := req.Currency
	if currency == "" {
		currency = "EGP"
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := models.Product{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		Image:       req.Image,
		Tags:        req.Tags,
		Stock:       req.Stock,
		IsActive:    active,
		CategoryID:  req.CategoryID,
		AuthorID:    req.AuthorID,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return httpx.Conflict(c, "duplicate slug")
	}

	h.indexProduct(c, &product)
	h.publish(c, map[string]any{"type": "product_created", "productID": product.ID})
	return c.JSON(http.StatusCreated, echo.Map{"product": product})
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return httpx.NotFound(c, "product not found")
	}

	if req.Title != product.Title {
		slug, err := util.UniqueSlug(req.Title, h.slugTaken(&models.Product{}))
		if err != nil {
			return httpx.ServerError(c)
		}
		product.Slug = slug
	}
	product.Title = req.Title
	product.Description = req.Description
	product.Price = req.Price
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	product.Image = req.Image
	product.Tags = req.Tags
	product.Stock = req.Stock
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.CategoryID = req.CategoryID
	product.AuthorID = req.AuthorID

	if err := h.DB.Save(&product).Error; err != nil {
		return httpx.Conflict(c, "duplicate slug")
	}

	h.indexProduct(c, &product)
	h.publish(c, map[string]any{"type": "product_updated", "productID": product.ID})
	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	result := h.DB.Delete(&models.Product{}, id)
	if result.Error != nil {
		c.Logger().Errorf("product delete error: %v", result.Error)
		return httpx.ServerError(c)
	}
	if result.RowsAffected == 0 {
		return httpx.NotFound(c, "product not found")
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteProduct(ctx, h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("es delete error: %v", err)
		}
	}
	h.publish(c, map[string]any{"type": "product_deleted", "productID": id})
	return c.NoContent(http.StatusNoContent)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
