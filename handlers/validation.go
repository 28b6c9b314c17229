package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validationMessage turns the first validator error into a short,
// human-readable message for the response body.
func validationMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, vErr := range vErrs {
			switch vErr.Tag() {
			case "required":
				return vErr.Field() + " value missing"
			case "email":
				return vErr.Field() + " must be a valid email address"
			case "min":
				return vErr.Field() + " value is less than " + vErr.Param()
			case "max":
				return vErr.Field() + " value is more than " + vErr.Param()
			case "gt":
				return vErr.Field() + " must be greater than " + vErr.Param()
			case "oneof":
				return vErr.Field() + " must be one of: " + vErr.Param()
			default:
				return http.StatusText(http.StatusBadRequest)
			}
		}
	}
	return http.StatusText(http.StatusBadRequest)
}
