package apperrors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"missionmatch/backend/internal/logger"
)

// HandleError writes err as {"error": message, "code": code}. Anything that
// is not an AppError, and every 5xx, is logged and reported generically.
func HandleError(c *gin.Context, err error) {
	appErr, ok := As(err)
	if !ok {
		appErr = Internal(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.FromContext(c.Request.Context()).Error("request failed",
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
		)
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if appErr.Details != nil && appErr.HTTPCode < 500 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.HTTPCode, body)
}

// Binding converts a gin binding failure into a validation error with one
// message per offending field.
func Binding(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fieldMessage(fe)
		}
		return Validation("Invalid request body").WithDetails(details)
	}
	return Validation("Invalid request body: %v", err)
}

// UseJSONFieldNames makes gin's validator report fields by their json tag.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
