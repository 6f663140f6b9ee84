// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("wallet_address", validateWalletAddress)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Wallet identities are opaque base58-ish strings; reject anything
// with whitespace or separators before it reaches the remote service.
func validateWalletAddress(fl validator.FieldLevel) bool {
	wallet := fl.Field().String()

	if len(wallet) < 16 || len(wallet) > 64 {
		return false
	}

	matched, _ := regexp.MatchString("^[a-zA-Z0-9]+$", wallet)
	return matched
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "lte":
		return e.Field() + " must be at most " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "wallet_address":
		return e.Field() + " must be an alphanumeric wallet address"
	default:
		return e.Field() + " is invalid"
	}
}
