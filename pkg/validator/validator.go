package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"safeTrip/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	RegisterCustomValidations(validate)
}

// ValidateStruct reports the first failing field as *e.ValidationError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return e.Invalid(fe.Field(), reason(fe))
	}
	return e.Wrap("validator", e.ErrInvalidInput)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "lat":
		return "must be within [-90, 90]"
	case "lng":
		return "must be within [-180, 180]"
	case "radius_m":
		return "must be > 0 and <= 50000"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be >= " + fe.Param()
	case "max":
		return "must be <= " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
