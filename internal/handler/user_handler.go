package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"milkdelivery/internal/dto"
	"milkdelivery/internal/service"
)

// UserHandler bundles user HTTP handlers. There is no delete endpoint.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUser godoc
// @Summary Create user (administrative, unusable password)
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserPayload true "User payload"
// @Success 201 {object} dto.UserRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var payload dto.UserPayload
	if err := bindPayload(c, &payload); err != nil {
		return err
	}
	user, err := h.svc.CreateUser(c.Request().Context(), &payload)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, dto.NewUserRecord(user))
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewUserRecord(user))
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param search query string false "Case-insensitive match on username or email"
// @Param is_partner query bool false "Only partners (true) or customers (false)"
// @Param page query int false "Page number" minimum(1)
// @Param page_size query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} dto.Page[dto.UserRecord]
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	var q dto.UserQuery
	if err := bindListQuery(c, &q.ListQuery); err != nil {
		return err
	}
	if c.QueryParam("is_partner") != "" {
		var partner bool
		if err := queryError(echo.QueryParamsBinder(c).Bool("is_partner", &partner).BindError()); err != nil {
			return err
		}
		q.IsPartner = &partner
	}

	users, total, err := h.svc.ListUsers(c.Request().Context(), q)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewPage(dto.NewUserRecords(users), q.ListQuery, total))
}

// UpdateUser godoc
// @Summary Replace user profile
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body dto.UserPayload true "User payload"
// @Success 200 {object} dto.UserRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	return h.update(c, false)
}

// PatchUser godoc
// @Summary Update some user profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body dto.UserPayload true "Fields to change"
// @Success 200 {object} dto.UserRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) PatchUser(c echo.Context) error {
	return h.update(c, true)
}

func (h *UserHandler) update(c echo.Context, partial bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var payload dto.UserPayload
	if err := bindPayload(c, &payload); err != nil {
		return err
	}
	user, err := h.svc.UpdateUser(c.Request().Context(), id, &payload, partial)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, dto.NewUserRecord(user))
}
