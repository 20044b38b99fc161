// Package validate configures the go-playground validator used for request DTOs
// and turns its errors into per-field messages keyed by JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hrblog/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// registration only fails on empty tags or nil funcs
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})

	return v
}

// Fields maps a validation error to field -> message. It returns nil for errors
// that did not come from the validator.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		if _, ok := fields[name]; ok {
			continue
		}
		fields[name] = message(fe)
	}

	return fields
}

// fieldName drops the top-level struct name from the namespace, so nested
// fields come out as "seo.title" and slice items as "tags[2]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "category":
		return "must be one of: " + strings.Join(models.Categories, ", ")
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
