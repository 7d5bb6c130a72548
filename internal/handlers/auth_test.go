package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

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
		&models.User{},
		&models.RefreshToken{},
		&models.Favorite{},
		&models.Category{},
		&models.Author{},
		&models.Product{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newAuthHandler(t *testing.T) *AuthHandler {
	return &AuthHandler{
		DB:            initTestDB(t),
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Producer:      &mykafka.Producer{},
		Validate:      validation.New(),
	}
}

func doJSON(t *testing.T, h func(echo.Context) error, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	e := echo.New()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func registerBody() map[string]any {
	return map[string]any{
		"fullName": "Ali Hassan",
		"email":    "ali@example.com",
		"password": "s3cret-pass",
		"phone":    "01012345678",
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	h := newAuthHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, h.DB.Where("email = ?", "ali@example.com").First(&user).Error)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.NotContains(t, rec.Body.String(), user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.Register, http.MethodPost, "/api/v1/register", registerBody())
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterRejectsBadPhone(t *testing.T) {
	h := newAuthHandler(t)

	body := registerBody()
	body["phone"] = "12345"
	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/register", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsTokens(t *testing.T) {
	h := newAuthHandler(t)
	doJSON(t, h.Register, http.MethodPost, "/api/v1/register", registerBody())

	rec := doJSON(t, h.Login, http.MethodPost, "/api/v1/login", map[string]any{
		"email":    "ali@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	var stored models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", resp.RefreshToken).First(&stored).Error)
	require.False(t, stored.Revoked)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHandler(t)
	doJSON(t, h.Register, http.MethodPost, "/api/v1/register", registerBody())

	rec := doJSON(t, h.Login, http.MethodPost, "/api/v1/login", map[string]any{
		"email":    "ali@example.com",
		"password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
