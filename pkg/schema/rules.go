package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	latLngPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)
	hsCodePattern = regexp.MustCompile(`^[0-9]{4,10}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under the names callers send them with.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"phone":   matches(phonePattern),
		"hscode":  matches(hsCodePattern),
		"isodate": isISODate,
		"latlng":  isLatLng,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("schema: registering %q: %v", tag, err))
		}
	}
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func isISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func isLatLng(fl validator.FieldLevel) bool {
	m := latLngPattern.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil || lat < -90 || lat > 90 {
		return false
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil || lng < -180 || lng > 180 {
		return false
	}
	return true
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	text := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if text {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if text {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "phone":
		return field + " must be a valid phone number"
	case "isodate":
		return field + " must be a date in YYYY-MM-DD format"
	case "latlng":
		return field + ` must be a "lat,lng" coordinate pair`
	case "hscode":
		return field + " must be 4 to 10 digits"
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
