package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Report json names instead of Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes the body into dst and answers 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		utils.RespondFieldErrors(c, http.StatusBadRequest, "validation failed", fields)
		return false
	}
	utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain only digits"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

// respondServiceError maps service and store errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondFieldErrors(c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, database.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrTerminalStatus), errors.Is(err, services.ErrAdminExists):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
