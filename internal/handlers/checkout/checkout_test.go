package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/mykafka"
	"github.com/dokkan/bookstore/internal/validation"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.IdempotencyKey{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newHandler(t *testing.T) *CheckoutHandler {
	return &CheckoutHandler{
		DB:          initTestDB(t),
		Producer:    &mykafka.Producer{},
		Validate:    validation.New(),
		StorePhone:  "201234567890",
		ShippingFee: 0,
	}
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price float64) models.Product {
	p := models.Product{Title: title, Slug: strings.ToLower(title), Description: "d", Price: price, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func validPayload(productID uint) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": productID, "title": "My Book", "price": 10.0, "quantity": 2},
		},
		"shipping": 10.0,
		"customer": map[string]any{"name": "Ali"},
		"shippingDetails": map[string]any{
			"recipientName":  "Ali Hassan Mohamed",
			"province":       "Giza",
			"cityOrDistrict": "Dokki",
			"streetInfo":     "12 Tahrir St",
			"phone":          "01012345678",
		},
	}
}

func doCheckout(t *testing.T, h *CheckoutHandler, payload map[string]any, userID *uint) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("userID", *userID)
	}
	require.NoError(t, h.Create(c))
	return rec
}

func TestCheckoutComputesTotals(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)

	rec := doCheckout(t, h, validPayload(p.ID), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, float64(30), resp.Total)
	require.NotEmpty(t, resp.OrderNumber)
	require.True(t, strings.HasPrefix(resp.WhatsappURL, "https://wa.me/201234567890?text="))

	var ord models.Order
	require.NoError(t, h.DB.First(&ord, resp.OrderID).Error)
	require.Equal(t, float64(20), ord.Subtotal)
	require.Equal(t, float64(10), ord.Shipping)
	require.Equal(t, float64(30), ord.Total)
	require.Equal(t, models.OrderStatusPending, ord.Status)
	require.Nil(t, ord.UserID)
}

func TestCheckoutIgnoresClientPrice(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 99.5)

	payload := validPayload(p.ID)
	payload["items"] = []map[string]any{
		{"productId": p.ID, "title": "cheap", "price": 0.01, "quantity": 1},
	}
	payload["shipping"] = 0.0

	rec := doCheckout(t, h, payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 99.5, resp.Total)

	var item models.OrderItem
	require.NoError(t, h.DB.Where("order_id = ?", resp.OrderID).First(&item).Error)
	require.Equal(t, "Book", item.Title)
	require.Equal(t, 99.5, item.Price)
}

func TestCheckoutRejectsBadPhone(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)

	payload := validPayload(p.ID)
	payload["shippingDetails"].(map[string]any)["phone"] = "12345"

	rec := doCheckout(t, h, payload, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Validation failed", body.Error)

	found := false
	for _, d := range body.Details {
		if strings.Contains(d.Field, "phone") {
			found = true
		}
	}
	require.True(t, found, "expected a phone field error, got %v", body.Details)
}

func TestCheckoutRejectsShortRecipientName(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)

	payload := validPayload(p.ID)
	payload["shippingDetails"].(map[string]any)["recipientName"] = "Al"

	rec := doCheckout(t, h, payload, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	found := false
	for _, d := range body.Details {
		if strings.Contains(d.Field, "recipientName") && strings.Contains(d.Message, "at least 5") {
			found = true
		}
	}
	require.True(t, found, "expected a recipientName min-length error, got %v", body.Details)
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	h := newHandler(t)

	payload := validPayload(1)
	payload["items"] = []map[string]any{}

	rec := doCheckout(t, h, payload, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRejectsUnavailableProduct(t *testing.T) {
	h := newHandler(t)

	rec := doCheckout(t, h, validPayload(42), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	h.DB.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCheckoutClearsAuthenticatedCart(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)
	userID := uint(1)
	h.DB.Create(&models.CartItem{UserID: userID, ProductID: p.ID, Title: "Book", Price: 10, Quantity: 2})

	rec := doCheckout(t, h, validPayload(p.ID), &userID)
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	h.DB.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count)
	require.Equal(t, int64(0), count)

	var ord models.Order
	require.NoError(t, h.DB.Where("user_id = ?", userID).First(&ord).Error)
	require.Equal(t, userID, *ord.UserID)
}

func TestDoubleSubmitWithoutKeyCreatesTwoOrders(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)
	userID := uint(1)

	rec1 := doCheckout(t, h, validPayload(p.ID), &userID)
	rec2 := doCheckout(t, h, validPayload(p.ID), &userID)
	require.Equal(t, http.StatusCreated, rec1.Code)
	require.Equal(t, http.StatusCreated, rec2.Code)

	var count int64
	h.DB.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(2), count)
}

func TestIdempotencyKeyReturnsSameOrder(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)
	userID := uint(1)

	payload := validPayload(p.ID)
	payload["idempotencyKey"] = "attempt-1"

	rec1 := doCheckout(t, h, payload, &userID)
	require.Equal(t, http.StatusCreated, rec1.Code)
	var resp1 response
	require.NoError(t, json.Unmarshal(rec1.Body.Bytes(), &resp1))

	rec2 := doCheckout(t, h, payload, &userID)
	require.Equal(t, http.StatusOK, rec2.Code)
	var resp2 response
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp2))

	require.Equal(t, resp1.OrderID, resp2.OrderID)
	require.Equal(t, resp1.OrderNumber, resp2.OrderNumber)

	var count int64
	h.DB.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestIdempotencyKeyOfOtherUserConflicts(t *testing.T) {
	h := newHandler(t)
	p := seedProduct(t, h.DB, "Book", 10)
	alice, bob := uint(1), uint(2)

	payload := validPayload(p.ID)
	payload["idempotencyKey"] = "shared-key"

	rec1 := doCheckout(t, h, payload, &alice)
	require.Equal(t, http.StatusCreated, rec1.Code)

	rec2 := doCheckout(t, h, payload, &bob)
	require.Equal(t, http.StatusConflict, rec2.Code)
}

func TestPersistErrorReplaysCommittedKey(t *testing.T) {
	h := newHandler(t)
	userID := uint(1)

	ord := models.Order{Number: "winner-1", UserID: &userID, Total: 30, Status: models.OrderStatusPending}
	require.NoError(t, h.DB.Create(&ord).Error)
	require.NoError(t, h.DB.Create(&models.IdempotencyKey{Key: "racy-key", UserID: &userID, OrderID: ord.ID}).Error)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// The losing submission sees its key insert fail after the winner commits.
	dup := errors.New("duplicate key value violates unique constraint \"idx_idempotency_keys_key\"")
	require.NoError(t, h.persistError(c, "racy-key", &userID, dup))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, ord.ID, resp.OrderID)
	require.Equal(t, "winner-1", resp.OrderNumber)

	var count int64
	h.DB.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestPersistErrorWithoutKeyIsServerError(t *testing.T) {
	h := newHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.persistError(c, "", nil, errors.New("connection reset")))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCheckoutDefaultShippingFee(t *testing.T) {
	h := newHandler(t)
	h.ShippingFee = 25
	p := seedProduct(t, h.DB, "Book", 10)

	payload := validPayload(p.ID)
	delete(payload, "shipping")

	rec := doCheckout(t, h, payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, float64(45), resp.Total)
}
