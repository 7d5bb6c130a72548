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

type authorRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=80"`
	Bio   string `json:"bio"   validate:"max=2000"`
	Image string `json:"image" validate:"omitempty,url"`
}

func (h *AdminHandler) ListAuthors(c echo.Context) error {
	authors := []models.Author{}
	if err := h.DB.Order("name ASC").Find(&authors).Error; err != nil {
		c.Logger().Errorf("author list error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"authors": authors})
}

func (h *AdminHandler) CreateAuthor(c echo.Context) error {
	var req authorRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	slug, err := util.UniqueSlug(req.Name, h.slugTaken(&models.Author{}))
	if err != nil {
		return httpx.ServerError(c)
	}

	author := models.Author{Name: req.Name, Slug: slug, Bio: req.Bio, Image: req.Image}
	if err := h.DB.Create(&author).Error; err != nil {
		return httpx.Conflict(c, "duplicate slug")
	}

	h.publish(c, map[string]any{"type": "author_created", "authorID": author.ID})
	return c.JSON(http.StatusCreated, echo.Map{"author": author})
}

func (h *AdminHandler) UpdateAuthor(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	var req authorRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	var author models.Author
	if err := h.DB.First(&author, id).Error; err != nil {
		return httpx.NotFound(c, "author not found")
	}

	if req.Name != author.Name {
		slug, err := util.UniqueSlug(req.Name, h.slugTaken(&models.Author{}))
		if err != nil {
			return httpx.ServerError(c)
		}
		author.Slug = slug
	}
	author.Name = req.Name
	author.Bio = req.Bio
	author.Image = req.Image

	if err := h.DB.Save(&author).Error; err != nil {
		return httpx.Conflict(c, "duplicate slug")
	}

	h.publish(c, map[string]any{"type": "author_updated", "authorID": author.ID})
	return c.JSON(http.StatusOK, echo.Map{"author": author})
}

func (h *AdminHandler) DeleteAuthor(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	result := h.DB.Delete(&models.Author{}, id)
	if result.Error != nil {
		c.Logger().Errorf("author delete error: %v", result.Error)
		return httpx.ServerError(c)
	}
	if result.RowsAffected == 0 {
		return httpx.NotFound(c, "author not found")
	}

	h.publish(c, map[string]any{"type": "author_deleted", "authorID": id})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
