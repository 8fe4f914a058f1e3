package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkdelivery/internal/config"
	"milkdelivery/internal/db"
	"milkdelivery/internal/handler"
	"milkdelivery/internal/metrics"
	"milkdelivery/internal/repository"
	"milkdelivery/internal/seed"
	"milkdelivery/internal/service"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	categories := service.NewCategoryService(categoryRepo, nil, collector)
	products := service.NewProductService(productRepo, categoryRepo, nil, collector)

	e := echo.New()
	Register(e, &config.Config{}, Handlers{
		Health:     handler.NewHealthHandler(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }),
		Users:      handler.NewUserHandler(service.NewUserService(userRepo, nil, collector)),
		Categories: handler.NewCategoryHandler(categories, products),
		Products:   handler.NewProductHandler(products),
		Seed:       handler.NewSeedHandler(seed.NewSeeder(categoryRepo, productRepo, nil)),
	}, collector, registry)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func idOf(t *testing.T, body map[string]interface{}) int {
	t.Helper()
	id, ok := body["id"].(float64)
	require.True(t, ok, "no id in %v", body)
	return int(id)
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)
	rec, body := do(t, e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["store"])
}

func TestCategoryProductLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec, dairy := do(t, e, http.MethodPost, "/api/categories", `{"name": "Dairy"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	dairyID := idOf(t, dairy)
	assert.Nil(t, dairy["image_url"])

	rec, milk := do(t, e, http.MethodPost, "/api/products", fmt.Sprintf(`{"name": "Milk 1L", "price": "3.50", "category": %d}`, dairyID))
	require.Equal(t, http.StatusCreated, rec.Code)
	milkID := idOf(t, milk)

	rec, _ = do(t, e, http.MethodGet, fmt.Sprintf("/api/products/%d", milkID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"name":"Milk 1L","description":null,"price":"3.50","image_url":null,"category":%d}`, milkID, dairyID), rec.Body.String())

	rec, patched := do(t, e, http.MethodPatch, fmt.Sprintf("/api/products/%d", milkID), `{"description": "Toned milk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Toned milk", patched["description"])
	assert.Equal(t, "3.50", patched["price"])

	rec, list := do(t, e, http.MethodGet, fmt.Sprintf("/api/categories/%d/products", dairyID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), list["total"])

	rec, _ = do(t, e, http.MethodDelete, fmt.Sprintf("/api/categories/%d", dairyID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, errBody := do(t, e, http.MethodGet, fmt.Sprintf("/api/products/%d", milkID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errBody["code"])
}

func TestErrorTaxonomy(t *testing.T) {
	e := newTestServer(t)
	rec, _ := do(t, e, http.MethodPost, "/api/categories", `{"name": "Eggs"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"duplicate category", http.MethodPost, "/api/categories", `{"name": "Eggs"}`, http.StatusConflict, "DUPLICATE", "name"},
		{"unknown category reference", http.MethodPost, "/api/products", `{"name": "Ghost", "price": 1, "category": 9999}`, http.StatusBadRequest, "INVALID_REFERENCE", "category"},
		{"category zero is an unknown reference", http.MethodPost, "/api/products", `{"name": "Ghost", "price": 1, "category": 0}`, http.StatusBadRequest, "INVALID_REFERENCE", "category"},
		{"validation lists fields", http.MethodPost, "/api/products", `{"price": "1.999"}`, http.StatusBadRequest, "VALIDATION_ERROR", "price"},
		{"wrong json type", http.MethodPost, "/api/products", `{"name": "Milk", "price": 1, "category": "dairy"}`, http.StatusBadRequest, "VALIDATION_ERROR", "category"},
		{"malformed body", http.MethodPost, "/api/categories", `{"name": `, http.StatusBadRequest, "MALFORMED_PAYLOAD", ""},
		{"bad id", http.MethodGet, "/api/categories/abc", "", http.StatusBadRequest, "INVALID_ID", ""},
		{"missing user", http.MethodGet, "/api/users/42", "", http.StatusNotFound, "USER_NOT_FOUND", ""},
		{"page size too large", http.MethodGet, "/api/products?page_size=500", "", http.StatusBadRequest, "VALIDATION_ERROR", "page_size"},
		{"page beyond last allowed", http.MethodGet, "/api/products?page=92233720368547759", "", http.StatusBadRequest, "VALIDATION_ERROR", "page"},
		{"non-numeric page", http.MethodGet, "/api/categories?page=two", "", http.StatusBadRequest, "VALIDATION_ERROR", "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, e, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantField != "" {
				fields, ok := body["fields"].(map[string]interface{})
				require.True(t, ok, rec.Body.String())
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}
}

func TestUsersEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec, user := do(t, e, http.MethodPost, "/api/users", `{"username": "asha", "email": "asha@example.com", "password": "hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, false, user["is_partner"])
	userID := idOf(t, user)

	rec, updated := do(t, e, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), `{"username": "asha", "is_partner": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, updated["is_partner"])

	rec, list := do(t, e, http.MethodGet, "/api/users?is_partner=true&search=ASH", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), list["total"])
	assert.Equal(t, float64(1), list["page"])
	assert.Equal(t, float64(20), list["page_size"])
}

func TestProductListFilters(t *testing.T) {
	e := newTestServer(t)

	rec, result := do(t, e, http.MethodPost, "/api/seed/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, result["result"])

	rec, milk := do(t, e, http.MethodGet, "/api/categories?search=milk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := milk["results"].([]interface{})
	require.Len(t, results, 1)
	milkID := int(results[0].(map[string]interface{})["id"].(float64))

	rec, products := do(t, e, http.MethodGet, fmt.Sprintf("/api/products?category=%d&page_size=2", milkID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), products["total"])
	assert.Equal(t, float64(2), products["total_pages"])
	assert.Len(t, products["results"], 2)

	rec, searched := do(t, e, http.MethodGet, "/api/products?search=butter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), searched["total"])
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t)
	do(t, e, http.MethodPost, "/api/categories", `{"name": "Curd"}`)

	rec, _ := do(t, e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `milkdelivery_writes_total{entity="category",operation="create",outcome="ok"} 1`)
}
