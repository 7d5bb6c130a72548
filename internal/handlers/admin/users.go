package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/util"
)

func (h *AdminHandler) ListUsers(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.User{})
	if q := c.QueryParam("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return httpx.ServerError(c)
	}

	users := []models.User{}
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.Logger().Errorf("user list error: %v", err)
		return httpx.ServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"users": users,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

// UpdateUserRole flips a user between user and admin.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	var req struct {
		UserID uint   `json:"userId"`
		Role   string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if req.UserID == 0 || (req.Role != models.RoleUser && req.Role != models.RoleAdmin) {
		return httpx.BadRequest(c, "invalid payload")
	}

	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		return httpx.NotFound(c, "user not found")
	}

	user.Role = req.Role
	if err := h.DB.Save(&user).Error; err != nil {
		c.Logger().Errorf("user role update error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
