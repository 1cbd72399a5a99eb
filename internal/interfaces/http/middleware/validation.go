package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequestIDKey is the header carrying the request ID
const RequestIDKey = "X-Request-ID"

// SetupValidator installs RegisterValidations on gin's binding engine
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations reports fields by their json (or form) name and adds
// the "subdomain" tag backed by the domain rules.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(wireName)
	_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return identity.ValidateSubdomain(identity.NormalizeSubdomain(fl.Field().String())) == nil
	})
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return f.Name
}

// FormatValidationErrors lists one detail per rejected field. A JSON value of
// the wrong type is reported against its field too.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &fieldErrs):
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)})
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		details = []dto.ValidationDetail{{Field: typeErr.Field, Message: "Must be of type " + typeErr.Type.Kind().String()}}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 with the validation envelope
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, getRequestIDFromContext(c)))
}

func getRequestIDFromContext(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

var fixedMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Invalid email format",
	"uuid":      "Invalid UUID format",
	"url":       "Invalid URL format",
	"http_url":  "Invalid URL format",
	"subdomain": "Must be 3-30 lowercase letters or digits and not reserved",
}

var paramMessages = map[string]string{
	"eqfield": "Must match %s",
	"oneof":   "Must be one of: %s",
	"gt":      "Must be greater than %s",
	"gte":     "Must be at least %s",
}

func describe(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if format, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Param())
	}

	var bound string
	switch fe.Tag() {
	case "min":
		bound = "at least"
	case "max":
		bound = "at most"
	default:
		return "Invalid value"
	}
	if fe.Kind() == reflect.String {
		return fmt.Sprintf("Must be %s %s characters", bound, fe.Param())
	}
	return fmt.Sprintf("Must be %s %s", bound, fe.Param())
}
