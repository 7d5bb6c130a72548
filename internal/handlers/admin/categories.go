package admin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/util"
	"github.com/dokkan/bookstore/internal/validation"
)

type categoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=500"`
}

func (h *AdminHandler) ListCategories(c echo.Context) error {
	categories := []models.Category{}
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		c.Logger().Errorf("category list error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	slug, err := util.UniqueSlug(req.Name, h.slugTaken(&models.Category{}))
	if err != nil {
		c.Logger().Errorf("slug generation error: %v", err)
		return httpx.ServerError(c)
	}

	category := models.Category{Name: req.Name, Slug: slug, Description: req.Description}
	if err := h.DB.Create(&category).Error; err != nil {
		return httpx.Conflict(c, "duplicate slug")
	}

	h.publish(c, map[string]any{"type": "category_created", "categoryID": category.ID})
	return c.JSON(http.StatusCreated, echo.Map{"category": category})
}

func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		return httpx.NotFound(c, "category not found")
	}

	if req.Name != category.Name {
		slug, err := util.UniqueSlug(req.Name, h.slugTaken(&models.Category{}))
		if err != nil {
			return httpx.ServerError(c)
		}
		category.Slug = slug
	}
	category.Name = req.Name
	category.Description = req.Description

	if err := h.DB.Save(&category).Error; err != nil {
		return httpx.Conflict(c, "duplicate slug")
	}

	h.publish(c, map[string]any{"type": "category_updated", "categoryID": category.ID})
	return c.JSON(http.StatusOK, echo.Map{"category": category})
}

// DeleteCategory refuses to orphan products: a category with referencing
// products returns a 409 carrying the count.
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	var count int64
	if err := h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		c.Logger().Errorf("category dependents count error: %v", err)
		return httpx.ServerError(c)
	}
	if count > 0 {
		return httpx.ConflictCount(c, "category has related products and cannot be deleted", count)
	}

	result := h.DB.Delete(&models.Category{}, id)
	if result.Error != nil {
		c.Logger().Errorf("category delete error: %v", result.Error)
		return httpx.ServerError(c)
	}
	if result.RowsAffected == 0 {
		return httpx.NotFound(c, "category not found")
	}

	h.publish(c, map[string]any{"type": "category_deleted", "categoryID": id})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
