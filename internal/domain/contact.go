package domain

import (
	"net/mail"
	"strings"
)

// ValidEmail reports whether s is a bare e-mail address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}

	return addr.Address == strings.TrimSpace(s)
}

// ValidPhone reports whether s is a phone number of 10 to 15 digits.
// Spaces, dashes, parentheses and a leading + are allowed.
func ValidPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}

	return digits >= 10 && digits <= 15
}

// ValidAddress reports whether s holds anything besides whitespace.
func ValidAddress(s string) bool {
	return strings.TrimSpace(s) != ""
}
