package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/story-learning/internal/generate"
)

// RequestValidator plugs validator/v10 into echo. Failures become 400 errors with a readable message.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return generate.ValidDifficulty(fl.Field().String())
	})
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return generate.ValidGenre(fl.Field().String())
	})

	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(vErrs[0]))
	}
	return echo.NewHTTPError(http.StatusBadRequest, BadRequestError.Message)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "difficulty":
		return "Invalid difficulty. Must be one of: " + withRandom(generate.Difficulties)
	case "genre":
		return "Invalid genre. Must be one of: " + withRandom(generate.Genres)
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func withRandom(values []string) string {
	return strings.Join(values, ", ") + ", " + generate.Random
}
