package auth

import "regexp"

const minPasswordLen = 8

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidUsername reports whether s is 3-20 characters of alphanumerics,
// underscores or hyphens.
func ValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// ValidPassword reports whether s meets the minimum strength requirement.
func ValidPassword(s string) bool {
	return len(s) >= minPasswordLen
}
