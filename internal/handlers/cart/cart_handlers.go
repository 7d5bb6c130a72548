// Package cart holds the server-side cart for authenticated users. Anonymous
// carts live in client-local storage and never touch this API.
package cart

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/mykafka"
	"github.com/dokkan/bookstore/internal/service/token"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type itemInput struct {
	ProductID uint    `json:"productId"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  uint    `json:"quantity"`
}

type mutateRequest struct {
	Action    string      `json:"action"`
	Item      *itemInput  `json:"item,omitempty"`
	ProductID uint        `json:"productId,omitempty"`
	Quantity  *int        `json:"quantity,omitempty"`
	Items     []itemInput `json:"items,omitempty"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	items, err := h.load(h.DB, userID)
	if err != nil {
		c.Logger().Errorf("cart load error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Mutate applies one cart action and returns the full cart afterwards. The
// whole mutation runs in a single transaction so two tabs can't interleave a
// read-modify-write.
func (h *CartHandler) Mutate(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	var req mutateRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}

	var items []models.CartItem
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		switch req.Action {
		case "add":
			if req.Item == nil || req.Item.ProductID == 0 {
				return errBadAction
			}
			qty := uint(1)
			if req.Quantity != nil && *req.Quantity > 0 {
				qty = uint(*req.Quantity)
			}
			if err := h.add(tx, userID, *req.Item, qty); err != nil {
				return err
			}
		case "update":
			if req.ProductID == 0 || req.Quantity == nil {
				return errBadAction
			}
			if err := h.update(tx, userID, req.ProductID, *req.Quantity); err != nil {
				return err
			}
		case "remove":
			if req.ProductID == 0 {
				return errBadAction
			}
			if err := tx.Where("user_id = ? AND product_id = ?", userID, req.ProductID).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		case "clear":
			if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		case "setAll":
			if err := h.setAll(tx, userID, req.Items); err != nil {
				return err
			}
		default:
			return errBadAction
		}

		var err error
		items, err = h.load(tx, userID)
		return err
	})

	if errors.Is(txErr, errBadAction) {
		return httpx.BadRequest(c, "bad cart action")
	}
	if txErr != nil {
		c.Logger().Errorf("cart mutate error: %v", txErr)
		return httpx.ServerError(c)
	}

	h.publish(c, map[string]any{
		"type":   "cart_" + req.Action,
		"userID": userID,
		"count":  len(items),
	})
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *CartHandler) Clear(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		c.Logger().Errorf("cart clear error: %v", err)
		return httpx.ServerError(c)
	}

	h.publish(c, map[string]any{"type": "cart_cleared", "userID": userID})
	return c.JSON(http.StatusOK, echo.Map{"items": []models.CartItem{}})
}
