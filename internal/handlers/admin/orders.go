package admin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	orders "github.com/dokkan/bookstore/internal/service/order"
	"github.com/dokkan/bookstore/internal/util"
)

func (h *AdminHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Order{})
	if status := c.QueryParam("status"); status != "" {
		if !orders.ValidStatus(status) {
			return httpx.BadRequest(c, "unknown status")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return httpx.ServerError(c)
	}

	list := []models.Order{}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		c.Logger().Errorf("order list error: %v", err)
		return httpx.ServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"orders": list,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	var ord models.Order
	if err := h.DB.First(&ord, id).Error; err != nil {
		return httpx.NotFound(c, "order not found")
	}
	items := []models.OrderItem{}
	if err := h.DB.Where("order_id = ?", ord.ID).Find(&items).Error; err != nil {
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": ord, "items": items})
}

// UpdateOrderStatus moves an order along the lifecycle; illegal moves are
// conflicts, not validation errors, since the payload itself is well-formed.
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return httpx.BadRequest(c, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if !orders.ValidStatus(req.Status) {
		return httpx.BadRequest(c, "unknown status")
	}

	var ord models.Order
	if err := h.DB.First(&ord, id).Error; err != nil {
		return httpx.NotFound(c, "order not found")
	}
	if !orders.CanTransition(ord.Status, req.Status) {
		return httpx.Conflict(c, "illegal status transition from "+ord.Status+" to "+req.Status)
	}

	if err := h.DB.Model(&ord).Update("status", req.Status).Error; err != nil {
		c.Logger().Errorf("order status update error: %v", err)
		return httpx.ServerError(c)
	}
	ord.Status = req.Status

	h.publish(c, map[string]any{
		"type":    "order_status_changed",
		"orderID": ord.ID,
		"status":  req.Status,
	})
	return c.JSON(http.StatusOK, echo.Map{"order": ord})
}
