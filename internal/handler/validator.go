package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
)

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// RequestValidator adapts validator/v10 to echo.Validator.
type RequestValidator struct {
	v *validator.Validate
}

// NewValidator registers the clock (HH:MM) and isodate (YYYY-MM-DD) tags.
func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !clockPattern.MatchString(s) {
			return false
		}
		_, err := booking.ParseHour(s)
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(booking.DateLayout, fl.Field().String())
		return err == nil
	})
	return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

var _ echo.Validator = (*RequestValidator)(nil)

// bindValid binds the request into dst and runs the validator installed on
// the Echo instance.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// validationMessage renders the first failed rule as "<field> <rule>".
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		f := ve[0]
		if f.Param() != "" {
			return f.Field() + " " + f.Tag() + "=" + f.Param()
		}
		return f.Field() + " " + f.Tag()
	}
	return "invalid body"
}
