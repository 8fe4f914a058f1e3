package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"category not found", ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
		{"wrapped product not found", fmt.Errorf("get product 7: %w", ErrProductNotFound), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"malformed payload", fmt.Errorf("%w: unexpected EOF", ErrMalformedPayload), http.StatusBadRequest, "MALFORMED_PAYLOAD"},
		{"store unavailable", fmt.Errorf("%w: dial tcp", ErrStoreUnavailable), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"duplicate", &ConstraintError{Field: "name", Kind: ConstraintUnique}, http.StatusConflict, "DUPLICATE"},
		{"bad reference", &ConstraintError{Field: "category", Kind: ConstraintReference}, http.StatusBadRequest, "INVALID_REFERENCE"},
		{"validation", &ValidationError{Fields: map[string]string{"name": "This field is required."}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_FieldsCarried(t *testing.T) {
	verr := &ValidationError{}
	verr.Add("name", "This field is required.")
	verr.Add("price", "A valid number is required.")
	verr.Add("name", "ignored")

	resp := MapErrorToHTTP(fmt.Errorf("create product: %w", verr)).ToErrorResponse()

	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, map[string]string{
		"name":  "This field is required.",
		"price": "A valid number is required.",
	}, resp.Fields)

	dup := MapErrorToHTTP(&ConstraintError{Field: "username", Kind: ConstraintUnique}).ToErrorResponse()
	assert.Equal(t, map[string]string{"username": "a record with this value already exists"}, dup.Fields)
	assert.Equal(t, "username: a record with this value already exists", dup.Error)

	ref := MapErrorToHTTP(fmt.Errorf("create product: %w", &ConstraintError{Field: "category", Kind: ConstraintReference})).ToErrorResponse()
	assert.Equal(t, map[string]string{"category": "referenced record does not exist"}, ref.Fields)
}

func TestValidationError_OrNil(t *testing.T) {
	var empty ValidationError
	assert.NoError(t, empty.OrNil())

	empty.Add("email", "Enter a valid email address.")
	assert.Error(t, empty.OrNil())
	assert.Equal(t, "validation failed: email: Enter a valid email address.", empty.Error())
}
