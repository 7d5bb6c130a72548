package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/util"
)

type CatalogHandler struct {
	DB *gorm.DB
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

// GetProducts lists active products with substring search, category/author
// and price filters, sorting and the pagination meta block.
func (h *CatalogHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Product{}).Where("is_active = ?", true)

	if q := c.QueryParam("q"); q != "" {
		// LOWER on both sides keeps matching case-insensitive on postgres too.
		pattern := "%" + q + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	if cat := c.QueryParam("category"); cat != "" {
		if id, err := strconv.Atoi(cat); err == nil {
			query = query.Where("category_id = ?", id)
		} else {
			query = query.Where("category_id IN (?)",
				h.DB.Model(&models.Category{}).Select("id").Where("slug = ?", cat))
		}
	}
	if author := c.QueryParam("author"); author != "" {
		if id, err := strconv.Atoi(author); err == nil {
			query = query.Where("author_id = ?", id)
		} else {
			query = query.Where("author_id IN (?)",
				h.DB.Model(&models.Author{}).Select("id").Where("slug = ?", author))
		}
	}
	if min := c.QueryParam("minPrice"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if max := c.QueryParam("maxPrice"); max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Logger().Errorf("product count error: %v", err)
		return httpx.ServerError(c)
	}

	order := "created_at DESC"
	if c.QueryParam("sort") == "price" {
		order = "price ASC"
	}

	var items []models.Product
	if err := query.Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		c.Logger().Errorf("product list error: %v", err)
		return httpx.ServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHandler) GetProductBySlug(c echo.Context) error {
	slug := c.Param("slug")

	var product models.Product
	if err := h.DB.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error; err != nil {
		return httpx.NotFound(c, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		c.Logger().Errorf("category list error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *CatalogHandler) GetAuthors(c echo.Context) error {
	var authors []models.Author
	if err := h.DB.Order("name ASC").Find(&authors).Error; err != nil {
		c.Logger().Errorf("author list error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"authors": authors})
}
