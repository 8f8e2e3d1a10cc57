package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
)

// Email checks the local@domain.tld shape.
func Email(value string) bool {
	return emailRegex.MatchString(value)
}

// Phone checks that value is exactly ten ASCII digits.
func Phone(value string) bool {
	return phoneRegex.MatchString(value)
}

// MinLength reports whether value holds at least n characters once surrounding space is trimmed.
func MinLength(value string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(value)) >= n
}
