package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError pairs a form field with a human-readable message
type FieldError struct {
	Field   string
	Message string
}

// Errors is the ordered list surfaced back on the form. Order follows the
// request struct's field order.
type Errors []FieldError

func (e Errors) Messages() []string {
	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Message)
	}
	return messages
}

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// CustomMessage returns the per-tag messages for a field, if any
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"UserType": {
			"required": "Please choose an account type",
			"oneof":    "Account type must be adopter or shelter",
		},
		"Username": {
			"required": "Username is required",
			"min":      "Username must be at least 3 characters",
			"username": "Username may only contain letters, digits and underscores",
		},
		"FirstName": {
			"required": "First name is required",
		},
		"LastName": {
			"required": "Last name is required",
		},
		"Email": {
			"required": "Email is required",
			"email":    "Please enter a valid email address",
		},
		"Password": {
			"required": "Password is required",
			"min":      "Password must be at least 6 characters",
		},
		"ConfirmPassword": {
			"required": "Please confirm your password",
			"eqfield":  "Passwords do not match",
		},
		"Phone": {
			"required":    "Phone number is required",
			"phone_local": "Please enter a valid phone number",
		},
		"City": {
			"required": "City is required",
		},
		"District": {
			"required": "District is required",
		},
		"Province": {
			"required": "Province is required",
		},
		"ShelterName": {
			"required_if": "Shelter name is required",
		},
		"ShelterLicense": {
			"required_if": "Shelter license number is required",
		},
		"ShelterCapacity": {
			"required_if": "Shelter capacity is required",
			"gt":          "Shelter capacity must be a positive number",
		},
	}
	return customValidationMessages[field]
}

// DefaultMessage is the fallback when a field has no custom message for a tag
func DefaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s is too short", field)
	case "max":
		return fmt.Sprintf("%s is too long", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than the minimum", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "eqfield":
		return fmt.Sprintf("%s does not match", field)
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

// CollectErrors translates a binding/validation failure into the ordered,
// user-facing error list. Non-validator errors map to a single generic entry.
func CollectErrors(err error) Errors {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Errors{{Field: "", Message: "Submitted form could not be read"}}
	}

	collected := make(Errors, 0, len(validationErrors))
	for _, fe := range validationErrors {
		message := ""
		if fieldMessages := CustomMessage(fe.Field()); fieldMessages != nil {
			message = fieldMessages[fe.Tag()]
		}
		if message == "" {
			message = DefaultMessage(fe.Field(), fe.Tag())
		}
		collected = append(collected, FieldError{Field: fe.Field(), Message: message})
	}
	return collected
}
