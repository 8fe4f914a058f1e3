package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "milkdelivery/internal/errors"
)

var (
	validate = newValidator()

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	urlSchemes      = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}
)

// Validator returns the shared validator used for payloads and queries.
func Validator() *validator.Validate {
	return validate
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	v.RegisterCustomTypeFunc(optionalValue, Optional[string]{})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "weburl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && urlSchemes[strings.ToLower(u.Scheme)] && u.Host != ""
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// optionalValue exposes an Optional's value to tag validation; absent or
// null values validate as missing.
func optionalValue(field reflect.Value) interface{} {
	if o, ok := field.Interface().(Optional[string]); ok && o.Valid() {
		return o.Value
	}
	return nil
}

// validateFields runs tag validation and collects failures into verr.
// With partial set only the named struct fields are checked.
func validateFields(verr *apperrors.ValidationError, payload interface{}, partial bool, present []string) {
	var err error
	if partial {
		if len(present) == 0 {
			return
		}
		err = validate.StructPartial(payload, present...)
	} else {
		err = validate.Struct(payload)
	}
	collect(verr, err)
}

// ValidationFailure converts the result of a validator call into a
// *errors.ValidationError, or nil when err is nil.
func ValidationFailure(err error) error {
	verr := &apperrors.ValidationError{}
	collect(verr, err)
	return verr.OrNil()
}

func collect(verr *apperrors.ValidationError, err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("non_field_errors", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "weburl":
		return "Enter a valid URL."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Invalid value."
	}
}

// rejectNull flags fields that were sent as null but cannot be null.
func rejectNull(verr *apperrors.ValidationError, fields map[string]bool) {
	for name, null := range fields {
		if null {
			verr.Add(name, "This field may not be null.")
		}
	}
}

// DecodeError converts a JSON decoding failure into a field error when the
// failure is a type mismatch, and into ErrMalformedPayload otherwise.
func DecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := &apperrors.ValidationError{}
		verr.Add(typeErr.Field, "Incorrect type. Expected "+typeErr.Type.String()+".")
		return verr
	}
	return fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
}
