package server

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"myapi/internal/pkg/errorsx"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator reporting fields by their JSON names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("scale", validateScale)
	_ = v.RegisterValidation("maxbytes", validateMaxBytes)
	return &Validator{validate: v}
}

// validateScale allows at most param decimal places, e.g. scale=2 for money
func validateScale(fl validator.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	var value string
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		value = strconv.FormatFloat(fl.Field().Float(), 'f', -1, 64)
	default:
		return false
	}

	_, fraction, found := strings.Cut(value, ".")
	return !found || len(fraction) <= places
}

// validateMaxBytes bounds the encoded length of a string, unlike max which counts runes
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil || fl.Field().Kind() != reflect.String {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorsx.Validation("invalid request", nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return errorsx.Validation("the given data was invalid", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "scale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "eqfield":
		return "does not match"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

// Normalizer is implemented by payloads that canonicalize their fields
// before validation
type Normalizer interface {
	Normalize()
}

// Bind decodes the request into dst, normalizes it and validates it.
// Malformed payloads and rule violations are both validation errors.
func Bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return &errorsx.Error{
			Kind:    errorsx.KindValidation,
			Message: "malformed request body",
			Err:     err,
		}
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	return c.Validate(dst)
}
