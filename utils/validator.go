// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var provisionalIDPattern = regexp.MustCompile(`^\d{10,16}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// ValidatePIN checks the review PIN format (4-6 digits).
func ValidatePIN(pin string) (bool, string) {
	if matched, _ := regexp.MatchString(`^\d{4,6}$`, pin); !matched {
		return false, "PIN must be 4-6 digits"
	}
	return true, ""
}

// IsProvisionalID reports whether an inspection id looks like a
// client-generated timestamp id (epoch millis) rather than a server
// issued UUID.
func IsProvisionalID(id string) bool {
	return provisionalIDPattern.MatchString(id)
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
