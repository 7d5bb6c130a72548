package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/models"
)

var errBadAction = errors.New("bad cart action")

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CartHandler) load(tx *gorm.DB, userID uint) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error
	return items, err
}

// add merges by productId: an existing line gets its quantity incremented,
// otherwise a new line is appended.
func (h *CartHandler) add(tx *gorm.DB, userID uint, in itemInput, qty uint) error {
	var item models.CartItem
	err := tx.Where("user_id = ? AND product_id = ?", userID, in.ProductID).First(&item).Error
	if err == nil {
		item.Quantity += qty
		return tx.Save(&item).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&models.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Slug:      in.Slug,
		Title:     in.Title,
		Price:     in.Price,
		Image:     in.Image,
		Quantity:  qty,
	}).Error
}

// update sets the line quantity; zero or below removes the line.
func (h *CartHandler) update(tx *gorm.DB, userID, productID uint, qty int) error {
	if qty <= 0 {
		return tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.CartItem{}).Error
	}
	return tx.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty).Error
}

// setAll replaces the whole cart; the client uses it to push a local cart up
// after login.
func (h *CartHandler) setAll(tx *gorm.DB, userID uint, items []itemInput) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	for _, in := range items {
		if in.ProductID == 0 {
			continue
		}
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		if err := tx.Create(&models.CartItem{
			UserID:    userID,
			ProductID: in.ProductID,
			Slug:      in.Slug,
			Title:     in.Title,
			Price:     in.Price,
			Image:     in.Image,
			Quantity:  qty,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Total is the running sum the storefront shows in the drawer.
func Total(items []models.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}
