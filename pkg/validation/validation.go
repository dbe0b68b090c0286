package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fathoor/library-service/pkg/errs"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report failures against the json field name rather than the Go one
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ValidateStruct checks payload against its validate tags and returns an
// errs.ValidationError carrying the first failing field's message.
func ValidateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return errs.ErrClient
	}

	return errs.NewValidationError(fieldMessage(validationErrs[0]))
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", fieldErr.Field())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", fieldErr.Field())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Sprintf("The %s field may not be greater than %s characters", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("The %s field is invalid", fieldErr.Field())
	}
}
