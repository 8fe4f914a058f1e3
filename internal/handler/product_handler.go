package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"milkdelivery/internal/dto"
	"milkdelivery/internal/service"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param category query int false "Category ID"
// @Param search query string false "Case-insensitive match on name or description"
// @Param page query int false "Page number" minimum(1)
// @Param page_size query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} dto.Page[dto.ProductRecord]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	var q dto.ProductQuery
	if err := bindListQuery(c, &q.ListQuery); err != nil {
		return err
	}
	if c.QueryParam("category") != "" {
		var categoryID uint
		if err := queryError(echo.QueryParamsBinder(c).Uint("category", &categoryID).BindError()); err != nil {
			return err
		}
		q.Category = &categoryID
	}

	products, total, err := h.products.ListProducts(c.Request().Context(), q)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewPage(dto.NewProductRecords(products), q.ListQuery, total))
}

// CreateProduct godoc
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.ProductPayload true "Product payload"
// @Success 201 {object} dto.ProductRecord
// @Failure 400 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var payload dto.ProductPayload
	if err := bindPayload(c, &payload); err != nil {
		return err
	}
	product, err := h.products.CreateProduct(c.Request().Context(), &payload)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, dto.NewProductRecord(product))
}

// GetProduct godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.ProductRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.products.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewProductRecord(product))
}

// UpdateProduct godoc
// @Summary Replace product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body dto.ProductPayload true "Product payload"
// @Success 200 {object} dto.ProductRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	return h.update(c, false)
}

// PatchProduct godoc
// @Summary Update some product fields
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body dto.ProductPayload true "Fields to change"
// @Success 200 {object} dto.ProductRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [patch]
func (h *ProductHandler) PatchProduct(c echo.Context) error {
	return h.update(c, true)
}

func (h *ProductHandler) update(c echo.Context, partial bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var payload dto.ProductPayload
	if err := bindPayload(c, &payload); err != nil {
		return err
	}
	product, err := h.products.UpdateProduct(c.Request().Context(), id, &payload, partial)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewProductRecord(product))
}

// DeleteProduct godoc
// @Summary Delete product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.products.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
