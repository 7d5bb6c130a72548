// Package order assembles immutable order records out of a priced item list
// plus shipping details, and owns the order status lifecycle.
package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/validation"
)

var ErrProductUnavailable = errors.New("product not available")

const DefaultCurrency = "EGP"

// Line is an order item after server-side re-pricing.
type Line struct {
	ProductID uint
	Title     string
	Price     float64
	Quantity  uint
}

// Reprice swaps client-sent prices and titles for the live product record.
// Client payloads are never trusted for money. Unknown or inactive products
// fail the whole checkout.
func Reprice(tx *gorm.DB, items []validation.OrderItemInput) ([]Line, error) {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		var p models.Product
		if err := tx.First(&p, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductUnavailable
			}
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrProductUnavailable
		}
		lines = append(lines, Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})
	}
	return lines, nil
}

// Totals computes subtotal and total at two decimal places.
func Totals(lines []Line, shipping float64) (subtotal, total float64) {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromUint64(uint64(l.Quantity))))
	}
	sub := sum.Round(2)
	tot := sub.Add(decimal.NewFromFloat(shipping)).Round(2)
	return sub.InexactFloat64(), tot.InexactFloat64()
}

// Assemble persists a pending order with its item snapshot inside tx. The
// snapshot is decoupled from live products: later catalog edits never touch
// historical orders.
func Assemble(tx *gorm.DB, lines []Line, payload *validation.CheckoutPayload, shipping float64, userID *uint) (*models.Order, []models.OrderItem, error) {
	if len(lines) == 0 {
		return nil, nil, errors.New("no items to order")
	}

	currency := payload.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	subtotal, total := Totals(lines, shipping)

	s := payload.ShippingDetails
	ord := models.Order{
		Number:           uuid.NewString(),
		UserID:           userID,
		Subtotal:         subtotal,
		Shipping:         shipping,
		Total:            total,
		Currency:         currency,
		CustomerName:     payload.Customer.Name,
		CustomerEmail:    payload.Customer.Email,
		CustomerPhone:    payload.Customer.Phone,
		RecipientName:    s.RecipientName,
		Province:         s.Province,
		CityOrDistrict:   s.CityOrDistrict,
		StreetInfo:       s.StreetInfo,
		Landmark:         s.Landmark,
		Phone:            s.Phone,
		PhoneAlternate:   s.PhoneAlternate,
		NotesOrBooksList: s.NotesOrBooksList,
		Status:           models.OrderStatusPending,
		CreatedAt:        time.Now(),
	}
	if err := tx.Create(&ord).Error; err != nil {
		return nil, nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			OrderID:   ord.ID,
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	if err := tx.Create(&items).Error; err != nil {
		return nil, nil, err
	}

	return &ord, items, nil
}
