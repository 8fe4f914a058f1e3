package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkdelivery/internal/cache"
	"milkdelivery/internal/db"
	"milkdelivery/internal/dto"
	apperrors "milkdelivery/internal/errors"
	"milkdelivery/internal/repository"
)

type catalog struct {
	categories CategoryService
	products   ProductService
	users      UserService
}

func newCatalog(t *testing.T) catalog {
	t.Helper()
	return newCachedCatalog(t, nil)
}

func newCachedCatalog(t *testing.T, cacheClient *cache.Client) catalog {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	return catalog{
		categories: NewCategoryService(categoryRepo, cacheClient, nil),
		products:   NewProductService(productRepo, categoryRepo, cacheClient, nil),
		users:      NewUserService(repository.NewUserRepository(gormDB), cacheClient, nil),
	}
}

func productPayload(t *testing.T, body string) *dto.ProductPayload {
	t.Helper()
	var p dto.ProductPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

func TestCatalog_DairyScenario(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	dairy, err := c.categories.CreateCategory(ctx, &dto.CategoryPayload{Name: dto.Of("Dairy")})
	require.NoError(t, err)

	milk, err := c.products.CreateProduct(ctx, productPayload(t, `{"name": "Milk 1L", "price": "3.50", "category": `+jsonID(dairy.ID)+`}`))
	require.NoError(t, err)

	loaded, err := c.products.GetProduct(ctx, milk.ID)
	require.NoError(t, err)
	data, err := json.Marshal(dto.NewProductRecord(loaded))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":`+jsonID(milk.ID)+`,"name":"Milk 1L","description":null,"price":"3.50","image_url":null,"category":`+jsonID(dairy.ID)+`}`, string(data))

	products, total, err := c.products.ListCategoryProducts(ctx, dairy.ID, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, milk.ID, products[0].ID)

	require.NoError(t, c.categories.DeleteCategory(ctx, dairy.ID))

	_, err = c.products.GetProduct(ctx, milk.ID)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	_, _, err = c.products.ListCategoryProducts(ctx, dairy.ID, dto.ListQuery{})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCatalog_DuplicateCategoryLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	_, err := c.categories.CreateCategory(ctx, &dto.CategoryPayload{Name: dto.Of("Paneer")})
	require.NoError(t, err)

	_, err = c.categories.CreateCategory(ctx, &dto.CategoryPayload{Name: dto.Of("Paneer")})
	var constraintErr *apperrors.ConstraintError
	require.True(t, errors.As(err, &constraintErr))
	assert.Equal(t, apperrors.ConstraintUnique, constraintErr.Kind)

	_, total, err := c.categories.ListCategories(ctx, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCatalog_ProductWithUnknownCategory(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	_, err := c.products.CreateProduct(ctx, productPayload(t, `{"name": "Ghost", "price": 1, "category": 9999}`))

	var constraintErr *apperrors.ConstraintError
	require.True(t, errors.As(err, &constraintErr), "got %v", err)
	assert.Equal(t, apperrors.ConstraintReference, constraintErr.Kind)

	_, total, err := c.products.ListProducts(ctx, dto.ProductQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCatalog_PriceExactness(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	ghee, err := c.categories.CreateCategory(ctx, &dto.CategoryPayload{Name: dto.Of("Ghee")})
	require.NoError(t, err)

	product, err := c.products.CreateProduct(ctx, productPayload(t, `{"name": "Bilona Ghee", "price": 1234567.89, "category": `+jsonID(ghee.ID)+`}`))
	require.NoError(t, err)
	loaded, err := c.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234567.89", dto.FormatPrice(loaded.Price))

	_, err = c.products.UpdateProduct(ctx, product.ID, productPayload(t, `{"price": "1.999"}`), true)
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "price")

	unchanged, err := c.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234567.89", dto.FormatPrice(unchanged.Price))
}

func TestCatalog_UpdateProductMovesCategory(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	curd, err := c.categories.CreateCategory(ctx, &dto.CategoryPayload{Name: dto.Of("Curd")})
	require.NoError(t, err)
	milk, err := c.categories.CreateCategory(ctx, &dto.CategoryPayload{Name: dto.Of("Milk")})
	require.NoError(t, err)

	product, err := c.products.CreateProduct(ctx, productPayload(t, `{"name": "Greek Yogurt", "description": "High protein", "price": 60, "category": `+jsonID(milk.ID)+`}`))
	require.NoError(t, err)

	updated, err := c.products.UpdateProduct(ctx, product.ID, productPayload(t, `{"category": `+jsonID(curd.ID)+`}`), true)
	require.NoError(t, err)
	assert.Equal(t, curd.ID, updated.CategoryID)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "High protein", *updated.Description)

	_, err = c.products.UpdateProduct(ctx, product.ID, productPayload(t, `{"category": 9999}`), true)
	var constraintErr *apperrors.ConstraintError
	require.True(t, errors.As(err, &constraintErr), "got %v", err)

	require.NoError(t, c.products.DeleteProduct(ctx, product.ID))
	assert.ErrorIs(t, c.products.DeleteProduct(ctx, product.ID), apperrors.ErrProductNotFound)
}

func TestCatalog_Users(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	var payload dto.UserPayload
	require.NoError(t, json.Unmarshal([]byte(`{"username": "ravi", "email": "ravi@example.com", "password": "ignored"}`), &payload))
	user, err := c.users.CreateUser(ctx, &payload)
	require.NoError(t, err)
	assert.False(t, user.IsPartner)
	assert.True(t, strings.HasPrefix(user.PasswordHash, unusablePasswordPrefix))
	assert.True(t, user.IsActive)

	var patch dto.UserPayload
	require.NoError(t, json.Unmarshal([]byte(`{"is_partner": true, "profile_image": "https://example.com/ravi.png"}`), &patch))
	updated, err := c.users.UpdateUser(ctx, user.ID, &patch, true)
	require.NoError(t, err)
	assert.True(t, updated.IsPartner)
	assert.Equal(t, "ravi", updated.Username)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	partner := true
	partners, total, err := c.users.ListUsers(ctx, dto.UserQuery{IsPartner: &partner})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, user.ID, partners[0].ID)

	_, err = c.users.GetUser(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	var dup dto.UserPayload
	require.NoError(t, json.Unmarshal([]byte(`{"username": "ravi"}`), &dup))
	_, err = c.users.CreateUser(ctx, &dup)
	var constraintErr *apperrors.ConstraintError
	require.True(t, errors.As(err, &constraintErr))
	assert.Equal(t, "username", constraintErr.Field)
}

func jsonID(id uint) string {
	data, _ := json.Marshal(id)
	return string(data)
}
