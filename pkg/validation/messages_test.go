package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type registrationForm struct {
	Username string `validate:"required,min=3,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Phone    string `validate:"required,phone_local"`
}

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		t.Fatalf("Failed to register validators: %v", err)
	}
	return v
}

func TestUsernameValidator(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"Letters and digits", "jane99", true},
		{"Underscores", "jane_doe", true},
		{"Spaces", "jane doe", false},
		{"Hyphen", "jane-doe", false},
		{"Symbols", "jane!", false},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.username, "username")
			if tt.valid && err != nil {
				t.Errorf("Expected %q to be valid: %v", tt.username, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected %q to be rejected", tt.username)
			}
		})
	}
}

func TestPhoneValidator(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"Leading zero", "0771234567", true},
		{"Bare local", "771234567", true},
		{"Canonical", "+94771234567", true},
		{"With separators", "077-123 4567", true},
		{"Too short", "12345", false},
		{"Letters", "07712345ab", false},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.phone, "phone_local")
			if tt.valid && err != nil {
				t.Errorf("Expected %q to be valid: %v", tt.phone, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected %q to be rejected", tt.phone)
			}
		})
	}
}

func TestCollectErrorsOrderAndMessages(t *testing.T) {
	v := newTestValidator(t)

	form := registrationForm{
		Username: "a!",
		Email:    "nope",
		Password: "abc",
		Phone:    "123",
	}

	collected := CollectErrors(v.Struct(form))
	if len(collected) != 4 {
		t.Fatalf("Expected 4 errors, got %d: %v", len(collected), collected.Messages())
	}

	expectedOrder := []string{"Username", "Email", "Password", "Phone"}
	for i, fe := range collected {
		if fe.Field != expectedOrder[i] {
			t.Errorf("Position %d: expected field %s, got %s", i, expectedOrder[i], fe.Field)
		}
	}

	expectedMessages := []string{
		"Username must be at least 3 characters",
		"Please enter a valid email address",
		"Password must be at least 6 characters",
		"Please enter a valid phone number",
	}
	for i, want := range expectedMessages {
		if collected[i].Message != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, collected[i].Message)
		}
	}
}

func TestCollectErrorsNonValidatorError(t *testing.T) {
	collected := CollectErrors(errors.New("boom"))
	if len(collected) != 1 || collected[0].Message != "Submitted form could not be read" {
		t.Errorf("Expected single generic entry, got %v", collected)
	}

	if got := CollectErrors(nil); got != nil {
		t.Errorf("Expected nil for nil error, got %v", got)
	}
}

func TestDefaultMessageFallback(t *testing.T) {
	if got := DefaultMessage("Street", "required"); got != "street is required" {
		t.Errorf("Unexpected fallback message: %q", got)
	}
	if got := DefaultMessage("Street", "unknown_tag"); got != "street is not valid" {
		t.Errorf("Unexpected fallback message: %q", got)
	}
}
