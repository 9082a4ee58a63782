package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func requireField(v *ValidationError, field, value string) {
	if blank(value) {
		v.Add(field, field+" is required")
	}
}

func checkEmail(v *ValidationError, field, value string) {
	if err := validate.Var(value, "required,email"); err != nil {
		v.Add(field, "must be a valid email address")
	}
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
