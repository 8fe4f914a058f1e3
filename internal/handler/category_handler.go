package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"milkdelivery/internal/dto"
	"milkdelivery/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categories service.CategoryService
	products   service.ProductService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categories service.CategoryService, products service.ProductService) *CategoryHandler {
	return &CategoryHandler{categories: categories, products: products}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param search query string false "Case-insensitive match on name"
// @Param page query int false "Page number" minimum(1)
// @Param page_size query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} dto.Page[dto.CategoryRecord]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	var q dto.ListQuery
	if err := bindListQuery(c, &q); err != nil {
		return err
	}

	categories, total, err := h.categories.ListCategories(c.Request().Context(), q)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewPage(dto.NewCategoryRecords(categories), q, total))
}

// CreateCategory godoc
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body dto.CategoryPayload true "Category payload"
// @Success 201 {object} dto.CategoryRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var payload dto.CategoryPayload
	if err := bindPayload(c, &payload); err != nil {
		return err
	}
	category, err := h.categories.CreateCategory(c.Request().Context(), &payload)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, dto.NewCategoryRecord(category))
}

// GetCategory godoc
// @Summary Get category by id
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} dto.CategoryRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	category, err := h.categories.GetCategory(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewCategoryRecord(category))
}

// UpdateCategory godoc
// @Summary Replace category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body dto.CategoryPayload true "Category payload"
// @Success 200 {object} dto.CategoryRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	return h.update(c, false)
}

// PatchCategory godoc
// @Summary Update some category fields
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body dto.CategoryPayload true "Fields to change"
// @Success 200 {object} dto.CategoryRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [patch]
func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	return h.update(c, true)
}

func (h *CategoryHandler) update(c echo.Context, partial bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var payload dto.CategoryPayload
	if err := bindPayload(c, &payload); err != nil {
		return err
	}
	category, err := h.categories.UpdateCategory(c.Request().Context(), id, &payload, partial)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewCategoryRecord(category))
}

// DeleteCategory godoc
// @Summary Delete category and its products
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.categories.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategoryProducts godoc
// @Summary List a category's products
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Param search query string false "Case-insensitive match on name or description"
// @Param page query int false "Page number" minimum(1)
// @Param page_size query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} dto.Page[dto.ProductRecord]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id}/products [get]
func (h *CategoryHandler) ListCategoryProducts(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var q dto.ListQuery
	if err := bindListQuery(c, &q); err != nil {
		return err
	}

	products, total, err := h.products.ListCategoryProducts(c.Request().Context(), id, q)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewPage(dto.NewProductRecords(products), q, total))
}
