package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"milkdelivery/internal/errors"
	"milkdelivery/internal/seed"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seeder *seed.Seeder
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// SeedCatalogResponse represents the seed response.
type SeedCatalogResponse struct {
	Message string      `json:"message"`
	Result  seed.Result `json:"result"`
}

// SeedCatalog godoc
// @Summary Seed the product catalog
// @Description Upserts categories by name and products by category and name. Without a body the built-in dairy catalog is used.
// @Tags seed
// @Accept json
// @Produce json
// @Param catalog body seed.Catalog false "Catalog to load"
// @Success 200 {object} SeedCatalogResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/catalog [post]
func (h *SeedHandler) SeedCatalog(c echo.Context) error {
	var (
		catalog *seed.Catalog
		err     error
	)
	if c.Request().ContentLength == 0 {
		catalog, err = seed.DefaultCatalog()
		if err != nil {
			return respondError(err)
		}
	} else {
		catalog = &seed.Catalog{}
		if err := bindPayload(c, catalog); err != nil {
			return err
		}
	}

	result, err := h.seeder.Run(c.Request().Context(), catalog)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		resp := httpErr.ToErrorResponse()
		if httpErr.StatusCode < http.StatusInternalServerError {
			resp.Error = err.Error()
		}
		return echo.NewHTTPError(httpErr.StatusCode, resp)
	}

	return c.JSON(http.StatusOK, SeedCatalogResponse{
		Message: "Catalog seeded successfully",
		Result:  result,
	})
}
