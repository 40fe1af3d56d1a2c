package validation

import (
	"strings"
	"unicode"
)

// ValidateUsername accepts 3-32 letters, digits, dots, dashes and underscores.
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if trimmed == "" {
		return invalid("username", "username is required")
	}

	if len(trimmed) < 3 || len(trimmed) > 32 {
		return invalid("username", "username must be between 3 and 32 characters")
	}

	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			continue
		}
		return invalid("username", "username may only contain letters, digits, '.', '-' and '_'")
	}

	return nil
}
