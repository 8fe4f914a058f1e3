package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"milkdelivery/internal/dto"
	"milkdelivery/internal/errors"
)

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// bindPayload decodes the JSON body into dst.
func bindPayload(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return respondError(dto.DecodeError(err))
	}
	return nil
}

// bindListQuery reads and validates page, page_size and search, then fills in defaults.
func bindListQuery(c echo.Context, q *dto.ListQuery) error {
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("page_size", &q.PageSize).
		String("search", &q.Search).
		BindError()
	if err != nil {
		return queryError(err)
	}
	if err := c.Validate(q); err != nil {
		return respondError(err)
	}
	q.ApplyDefaults()
	return nil
}

func queryError(err error) error {
	if err == nil {
		return nil
	}
	var bindErr *echo.BindingError
	if stderrors.As(err, &bindErr) {
		verr := &errors.ValidationError{}
		verr.Add(bindErr.Field, "A valid value is required.")
		return respondError(verr)
	}
	return respondError(stderrors.Join(errors.ErrMalformedPayload, err))
}

// respondError converts a domain error into an echo HTTP error.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
