package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrMalformedPayload is returned when a request body cannot be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrStoreUnavailable is returned when the relational store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ConstraintKind names the store constraint that rejected a write.
type ConstraintKind string

const (
	ConstraintUnique    ConstraintKind = "unique"
	ConstraintReference ConstraintKind = "reference"
)

// ConstraintError is a write rejected by a store constraint.
type ConstraintError struct {
	Field string
	Kind  ConstraintKind
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message())
}

// Message describes the violation without naming the field.
func (e *ConstraintError) Message() string {
	switch e.Kind {
	case ConstraintUnique:
		return "a record with this value already exists"
	case ConstraintReference:
		return "referenced record does not exist"
	default:
		return "constraint violation"
	}
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// ValidationError lists every offending field of a write payload.
type ValidationError struct {
	Fields map[string]string
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Has reports whether field already has a message.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// OrNil returns e when it holds at least one field, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Fields = validationErr.Fields
		return httpErr
	}

	var constraintErr *ConstraintError
	if errors.As(err, &constraintErr) {
		var httpErr *HTTPError
		switch constraintErr.Kind {
		case ConstraintUnique:
			httpErr = NewHTTPError(http.StatusConflict, constraintErr.Error(), "DUPLICATE")
		case ConstraintReference:
			httpErr = NewHTTPError(http.StatusBadRequest, constraintErr.Error(), "INVALID_REFERENCE")
		default:
			httpErr = NewHTTPError(http.StatusBadRequest, constraintErr.Error(), "CONSTRAINT_VIOLATION")
		}
		if constraintErr.Field != "" {
			httpErr.Fields = map[string]string{constraintErr.Field: constraintErr.Message()}
		}
		return httpErr
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCategoryNotFound.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProductNotFound.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrMalformedPayload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MALFORMED_PAYLOAD")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, ErrStoreUnavailable.Error(), "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
