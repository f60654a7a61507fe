package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message.
// Message is the user-facing text; the wrapped cause stays server-side.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Authentication. Unknown email and wrong password share one message so
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountDeactivated = NewDomainError("ACCOUNT_DEACTIVATED", "Your account has been deactivated. Please contact support.")
	ErrLoginFailed        = NewDomainError("LOGIN_FAILED", "Login failed, please try again")

	// Login form, checked in this precedence order
	ErrPasswordRequired = NewDomainError("PASSWORD_REQUIRED", "Password is required")
	ErrEmailRequired    = NewDomainError("EMAIL_REQUIRED", "Email is required")
	ErrEmailInvalid     = NewDomainError("EMAIL_INVALID", "Please enter a valid email address")

	// Registration conflicts
	ErrUsernameExists     = NewDomainError("USERNAME_EXISTS", "Username is already taken")
	ErrEmailExists        = NewDomainError("EMAIL_EXISTS", "Email is already registered")
	ErrRegistrationFailed = NewDomainError("REGISTRATION_FAILED", "Registration failed, please try again")

	// Newsletter
	ErrAlreadySubscribed = NewDomainError("ALREADY_SUBSCRIBED", "This email is already subscribed")

	// System
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrInternal     = NewDomainError("INTERNAL_ERROR", "Something went wrong, please try again later")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetErrorMessage safely extracts the user-facing message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// ToHTTPStatus maps domain errors to HTTP status codes for the JSON endpoints
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case "INVALID_CREDENTIALS", "ACCOUNT_DEACTIVATED":
		return http.StatusUnauthorized
	case "USERNAME_EXISTS", "EMAIL_EXISTS", "ALREADY_SUBSCRIBED":
		return http.StatusConflict
	case "USER_NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
