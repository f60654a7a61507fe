package service

import (
	"fmt"
	"strings"

	"github.com/pawhaven/platform/pkg/validation"
)

// NormalizePhone rewrites a phone number to the canonical
// "+<countrycode><9 digits>" form. Accepted inputs, after stripping spaces,
// hyphens and parentheses:
//
//	0771234567    (leading zero replaced by the country prefix)
//	771234567     (bare local number, prefix prepended)
//	+94771234567  (already canonical)
//	94771234567   (prefix without the plus)
//
// countryPrefix must carry the leading plus, e.g. "+94".
func NormalizePhone(raw, countryPrefix string) (string, error) {
	stripped := validation.StripPhoneSeparators(strings.TrimSpace(raw))
	if stripped == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	code := strings.TrimPrefix(countryPrefix, "+")

	var local string
	switch {
	case strings.HasPrefix(stripped, "+"+code):
		local = stripped[len(code)+1:]
	case strings.HasPrefix(stripped, code) && len(stripped) == len(code)+9:
		local = stripped[len(code):]
	case strings.HasPrefix(stripped, "0"):
		local = stripped[1:]
	default:
		local = stripped
	}

	if len(local) != 9 || !isDigits(local) {
		return "", fmt.Errorf("phone number %q does not normalize to a 9-digit local number", raw)
	}

	return "+" + code + local, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
