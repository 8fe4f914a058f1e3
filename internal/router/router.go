package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"milkdelivery/docs"
	"milkdelivery/internal/config"
	"milkdelivery/internal/dto"
	"milkdelivery/internal/handler"
	"milkdelivery/internal/logger"
	"milkdelivery/internal/metrics"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Seed       *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, collector *metrics.Collector, gatherer prometheus.Gatherer) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(middleware.Recover())
	if collector != nil {
		e.Use(collector.Middleware())
	}

	e.Validator = &CustomValidator{validator: dto.Validator()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", h.Health.Health)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Users are never deleted.
	api.GET("/users", h.Users.ListUsers)
	api.POST("/users", h.Users.CreateUser)
	api.GET("/users/:id", h.Users.GetUser)
	api.PUT("/users/:id", h.Users.UpdateUser)
	api.PATCH("/users/:id", h.Users.PatchUser)

	api.GET("/categories", h.Categories.ListCategories)
	api.POST("/categories", h.Categories.CreateCategory)
	api.GET("/categories/:id", h.Categories.GetCategory)
	api.PUT("/categories/:id", h.Categories.UpdateCategory)
	api.PATCH("/categories/:id", h.Categories.PatchCategory)
	api.DELETE("/categories/:id", h.Categories.DeleteCategory)
	api.GET("/categories/:id/products", h.Categories.ListCategoryProducts)

	api.GET("/products", h.Products.ListProducts)
	api.POST("/products", h.Products.CreateProduct)
	api.GET("/products/:id", h.Products.GetProduct)
	api.PUT("/products/:id", h.Products.UpdateProduct)
	api.PATCH("/products/:id", h.Products.PatchProduct)
	api.DELETE("/products/:id", h.Products.DeleteProduct)

	if h.Seed != nil {
		api.POST("/seed/catalog", h.Seed.SeedCatalog)
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{
			"error": "route not found",
			"code":  "ROUTE_NOT_FOUND",
		})
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface. Failures come back as a
// field-keyed validation error.
func (cv *CustomValidator) Validate(i interface{}) error {
	return dto.ValidationFailure(cv.validator.Struct(i))
}
