// Package validator adapts go-playground/validator to echo.
package validator

import (
	"reflect"
	"strings"

	"cloudburst/internal/domain/entity"
	"cloudburst/internal/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a validator with the domain tags registered:
// "severity" (warning|critical) and "nodetype" (node|gateway).
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
	_ = v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return entity.Severity(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("nodetype", func(fl validator.FieldLevel) bool {
		return entity.NodeType(fl.Field().String()).Valid()
	})

	return &CustomValidator{validate: v}
}

// Validate validates a bound request struct
func (cv *CustomValidator) Validate(i any) error {
	return errors.WithStack(cv.validate.Struct(i))
}

// FieldErrors flattens validation errors into field -> failed tag.
// It returns nil for any other error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}

	return fields
}
