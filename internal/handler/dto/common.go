// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/go-playground/validator/v10"

// validate is the shared validator for request DTOs.
var validate = validator.New()

// Validate runs struct-tag validation on a request DTO.
func Validate(v any) error {
	return validate.Struct(v)
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
