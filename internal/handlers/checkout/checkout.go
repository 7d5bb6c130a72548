// Package checkout sequences a purchase: validate, re-price, persist the
// order, clear the server cart, hand the buyer off to WhatsApp.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/mykafka"
	"github.com/dokkan/bookstore/internal/notify"
	orders "github.com/dokkan/bookstore/internal/service/order"
	"github.com/dokkan/bookstore/internal/service/token"
	"github.com/dokkan/bookstore/internal/validation"
)

type CheckoutHandler struct {
	DB          *gorm.DB
	Producer    *mykafka.Producer
	Validate    *validator.Validate
	StorePhone  string
	ShippingFee float64
}

type response struct {
	Success     bool    `json:"success"`
	OrderID     uint    `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Total       float64 `json:"total"`
	WhatsappURL string  `json:"whatsappUrl"`
}

func (h *CheckoutHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Create runs the single-pass checkout pipeline. Everything up to and
// including order persistence is transactional; the cart clear afterwards is
// best-effort and never rolls the order back.
func (h *CheckoutHandler) Create(c echo.Context) error {
	var payload validation.CheckoutPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}

	var userID *uint
	if id, ok := token.UserID(c); ok {
		userID = &id
	}

	// A replayed idempotency key returns the original order.
	if payload.IdempotencyKey != "" {
		resp, err := h.replay(payload.IdempotencyKey, userID)
		if errors.Is(err, errKeyConflict) {
			return httpx.Conflict(c, "idempotency key already used")
		}
		if err != nil {
			c.Logger().Errorf("idempotency lookup error: %v", err)
			return httpx.ServerError(c)
		}
		if resp != nil {
			return c.JSON(http.StatusOK, resp)
		}
	}

	fee := h.ShippingFee
	if payload.Shipping != nil {
		fee = *payload.Shipping
	}

	var (
		ord   *models.Order
		items []models.OrderItem
	)
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		lines, err := orders.Reprice(tx, payload.Items)
		if err != nil {
			return err
		}
		ord, items, err = orders.Assemble(tx, lines, &payload, fee, userID)
		if err != nil {
			return err
		}
		if payload.IdempotencyKey != "" {
			rec := models.IdempotencyKey{
				Key:     payload.IdempotencyKey,
				UserID:  userID,
				OrderID: ord.ID,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return h.persistError(c, payload.IdempotencyKey, userID, txErr)
	}

	// Authed carts are cleared server-side; a failure here is logged, the
	// order stands.
	if userID != nil {
		if err := h.DB.Where("user_id = ?", *userID).Delete(&models.CartItem{}).Error; err != nil {
			c.Logger().Errorf("cart clear after checkout failed for user %d: %v", *userID, err)
		}
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"orderID": ord.ID,
		"number":  ord.Number,
		"total":   ord.Total,
	})

	link := notify.BuildLink(h.StorePhone, notify.BuildMessage(ord, items))
	return c.JSON(http.StatusCreated, response{
		Success:     true,
		OrderID:     ord.ID,
		OrderNumber: ord.Number,
		Total:       ord.Total,
		WhatsappURL: link,
	})
}

var errKeyConflict = errors.New("idempotency key already used")

// persistError maps a failed order transaction to a response. A concurrent
// submission with the same idempotency key can slip past the pre-check and
// lose the unique-key insert; by the time that surfaces the winner has
// committed, so the key is re-checked and the recorded order replayed.
func (h *CheckoutHandler) persistError(c echo.Context, key string, userID *uint, txErr error) error {
	if errors.Is(txErr, orders.ErrProductUnavailable) {
		return httpx.BadRequest(c, "one or more products are unavailable")
	}
	if key != "" {
		resp, err := h.replay(key, userID)
		if err == nil && resp != nil {
			return c.JSON(http.StatusOK, resp)
		}
		if errors.Is(err, errKeyConflict) {
			return httpx.Conflict(c, "idempotency key already used")
		}
	}
	c.Logger().Errorf("checkout persist error: %v", txErr)
	return httpx.ServerError(c)
}

// replay looks up a previously recorded idempotency key. A key recorded for a
// different user is a conflict; an unknown key returns (nil, nil) and the
// checkout proceeds.
func (h *CheckoutHandler) replay(key string, userID *uint) (*response, error) {
	var rec models.IdempotencyKey
	err := h.DB.Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sameUser := (rec.UserID == nil && userID == nil) ||
		(rec.UserID != nil && userID != nil && *rec.UserID == *userID)
	if !sameUser {
		return nil, errKeyConflict
	}

	var ord models.Order
	if err := h.DB.First(&ord, rec.OrderID).Error; err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if err := h.DB.Where("order_id = ?", ord.ID).Find(&items).Error; err != nil {
		return nil, err
	}

	link := notify.BuildLink(h.StorePhone, notify.BuildMessage(&ord, items))
	return &response{
		Success:     true,
		OrderID:     ord.ID,
		OrderNumber: ord.Number,
		Total:       ord.Total,
		WhatsappURL: link,
	}, nil
}
