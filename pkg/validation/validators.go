package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	// 9-digit local number, optionally prefixed with a country code or a
	// single leading zero. Separators are stripped before matching.
	phoneRegex = regexp.MustCompile(`^(0|\+?[1-9][0-9]{0,2})?[0-9]{9}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// RegisterCustomValidators installs the platform's form validators on a
// validator instance (gin's binding engine in production, a fresh instance
// in tests).
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("username", validUsername); err != nil {
		return err
	}
	return v.RegisterValidation("phone_local", validPhone)
}

func validUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func validPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(StripPhoneSeparators(fl.Field().String()))
}

// StripPhoneSeparators removes spaces, hyphens and parentheses
func StripPhoneSeparators(phone string) string {
	return phoneSeparators.Replace(phone)
}
