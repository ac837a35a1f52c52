package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "ratelens/internal/errors"
)

// RequestValidator validates service requests using struct tags
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates a validator reporting json field names
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	_ = v.RegisterValidation("finite", isFinite)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{validator: v}
}

// Validate returns an AppError of type VALIDATION describing every failed
// field, or nil
func (rv *RequestValidator) Validate(req interface{}) error {
	err := rv.validator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewAppValidationError("invalid request", err)
	}

	details := make([]apperrors.ValidationError, 0, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := formatValidationError(fe)
		details = append(details, apperrors.ValidationError{Field: fe.Field(), Message: msg})
		messages = append(messages, msg)
	}

	return apperrors.NewAppValidationError(strings.Join(messages, "; "), err).
		WithContext("fields", details)
}

// formatValidationError formats validation error messages
func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		return fmt.Sprintf("%s must match %s, got %q", field, humanLayout(param), fe.Value())
	case "finite":
		return fmt.Sprintf("%s must be a finite number", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// humanLayout renders a Go time layout the way users write it
func humanLayout(layout string) string {
	return strings.NewReplacer("2006", "YYYY", "01", "MM", "02", "DD").Replace(layout)
}

func isFinite(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	v := field.Float()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
