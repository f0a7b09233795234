package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in error details.
// - Registers alias tags for password and blood group checks.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=6")
		v.RegisterAlias("bloodgroup", "oneof=A+ A- B+ B- AB+ AB- O+ O-")
		v.RegisterAlias("donationstatus", "oneof=pending inprogress completed canceled")
	}
}

// ToDetails converts binding errors into a map[field]message suitable for the
// API error payload.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = fieldMessage(fe)
		}
		return out
	}

	return map[string]string{"payload": err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "pwd", "min":
		return fmt.Sprintf("must be at least %s characters", paramOr(fe, "6"))
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "bloodgroup":
		return "must be a valid blood group (A+, A-, B+, B-, AB+, AB-, O+, O-)"
	case "donationstatus":
		return "must be one of pending, inprogress, completed, canceled"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "datetime":
		return "must match the expected date format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func paramOr(fe validator.FieldError, fallback string) string {
	if p := fe.Param(); p != "" {
		return p
	}
	return fallback
}
