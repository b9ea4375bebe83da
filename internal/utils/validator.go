package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"promptversioning-backend/internal/versioning"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail represents the structure of a single validation error.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

// ValidationErrorData represents the data field in the validation error response.
type ValidationErrorData struct {
	Errors []ValidationErrorDetail `json:"errors"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes field errors report JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("parametername", func(fl validator.FieldLevel) bool {
			return versioning.IsValidParameterName(fl.Field().String())
		})
		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			_, err := versioning.ParseVersion(fl.Field().String())
			return err == nil
		})
	})
}

// BindAndValidate binds the request body to the given object and validates it.
// If validation fails, it sends a formatted error response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var validationErrors []ValidationErrorDetail

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		for _, e := range fieldErrs {
			detail := ValidationErrorDetail{
				Field:    e.Field(),
				Message:  fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", e.Field(), e.Tag()),
				Expected: e.Param(),
				Received: e.Value(),
			}
			if detail.Expected == "" {
				detail.Expected = e.Tag()
			}

			switch e.Tag() {
			case "required":
				detail.Message = fmt.Sprintf("Field '%s' is required", e.Field())
				detail.Expected = "not null"
			case "min":
				detail.Message = fmt.Sprintf("Field '%s' must be at least %s characters long", e.Field(), e.Param())
				detail.Expected = fmt.Sprintf("min length %s", e.Param())
			case "max":
				detail.Message = fmt.Sprintf("Field '%s' must be at most %s characters long", e.Field(), e.Param())
				detail.Expected = fmt.Sprintf("max length %s", e.Param())
			case "parametername":
				detail.Message = fmt.Sprintf("Parameter name '%v' must be camelCase", e.Value())
				detail.Expected = "camelCase identifier"
			case "semver":
				detail.Message = fmt.Sprintf("Field '%s' must be a MAJOR.MINOR.PATCH version", e.Field())
				detail.Expected = "MAJOR.MINOR.PATCH"
			}

			validationErrors = append(validationErrors, detail)
		}
	case errors.As(err, &typeErr):
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    typeErr.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", typeErr.Field),
			Expected: typeErr.Type.String(),
			Received: typeErr.Value,
		})
	default:
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    "body",
			Message:  "Malformed JSON or invalid request body",
			Expected: "valid JSON",
			Received: "invalid",
		})
	}

	c.JSON(http.StatusBadRequest, Response{
		Status:  http.StatusBadRequest,
		Message: "Invalid request parameters",
		Data:    ValidationErrorData{Errors: validationErrors},
	})
	return false
}
