package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/models"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	cat := models.Category{Name: "Novels", Slug: "novels"}
	require.NoError(t, db.Create(&cat).Error)

	products := []models.Product{
		{Title: "Cheap Book", Slug: "cheap-book", Description: "about cats", Price: 5, IsActive: true, CategoryID: &cat.ID},
		{Title: "Pricey Book", Slug: "pricey-book", Description: "about dogs", Price: 50, IsActive: true},
		{Title: "Hidden Book", Slug: "hidden-book", Description: "draft", Price: 10, IsActive: false},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func getCatalog(t *testing.T, h *CatalogHandler, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec
}

type productListResponse struct {
	Data []models.Product `json:"data"`
	Meta struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func TestGetProductsHidesInactive(t *testing.T) {
	h := &CatalogHandler{DB: initTestDB(t)}
	seedCatalog(t, h.DB)

	rec := getCatalog(t, h, "/api/v1/products")
	var resp productListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Meta.Total)
	for _, p := range resp.Data {
		require.True(t, p.IsActive)
	}
}

func TestGetProductsFilters(t *testing.T) {
	h := &CatalogHandler{DB: initTestDB(t)}
	seedCatalog(t, h.DB)

	rec := getCatalog(t, h, "/api/v1/products?q=cats")
	var resp productListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "cheap-book", resp.Data[0].Slug)

	rec = getCatalog(t, h, "/api/v1/products?category=novels")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "cheap-book", resp.Data[0].Slug)

	rec = getCatalog(t, h, "/api/v1/products?minPrice=10")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "pricey-book", resp.Data[0].Slug)
}

func TestGetProductsSearchIgnoresCase(t *testing.T) {
	h := &CatalogHandler{DB: initTestDB(t)}
	seedCatalog(t, h.DB)

	var resp productListResponse
	rec := getCatalog(t, h, "/api/v1/products?q=CATS")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "cheap-book", resp.Data[0].Slug)

	rec = getCatalog(t, h, "/api/v1/products?q=cheap")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "Cheap Book", resp.Data[0].Title)
}

func TestGetProductsSortByPrice(t *testing.T) {
	h := &CatalogHandler{DB: initTestDB(t)}
	seedCatalog(t, h.DB)

	rec := getCatalog(t, h, "/api/v1/products?sort=price")
	var resp productListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, "cheap-book", resp.Data[0].Slug)
	require.Equal(t, "pricey-book", resp.Data[1].Slug)
}

func TestGetProductBySlug(t *testing.T) {
	h := &CatalogHandler{DB: initTestDB(t)}
	seedCatalog(t, h.DB)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/cheap-book", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("cheap-book")
	require.NoError(t, h.GetProductBySlug(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Cheap Book", p.Title)
}

func TestGetProductBySlugHidesInactive(t *testing.T) {
	h := &CatalogHandler{DB: initTestDB(t)}
	seedCatalog(t, h.DB)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/hidden-book", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("hidden-book")
	require.NoError(t, h.GetProductBySlug(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
