package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and reduces the first failure to the
// message clients see.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return missingFields()
		}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "email":
		return &ValidationError{Message: "invalid email"}
	case "min", "gte":
		return &ValidationError{Message: fe.Field() + " must be at least " + fe.Param()}
	default:
		return &ValidationError{Message: "invalid " + fe.Field()}
	}
}
