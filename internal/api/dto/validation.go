package dto

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the custom tags used by the request DTOs
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("equity", validateEquity)
}

// validateEquity accepts a decimal string between 0 and 1 inclusive
func validateEquity(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return f >= 0 && f <= 1
}
