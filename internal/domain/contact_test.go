package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	for email, want := range map[string]bool{
		"test@test.ru":           true,
		"first.last@example.com": true,
		"":                       false,
		"test":                   false,
		"Test <test@test.ru>":    false,
		"test@":                  false,
	} {
		require.Equal(t, want, ValidEmail(email), email)
	}
}

func TestValidPhone(t *testing.T) {
	t.Parallel()

	for phone, want := range map[string]bool{
		"+71234567890":       true,
		"+7 (123) 456-78-90": true,
		"81234567890":        true,
		"12345":              false,
		"+7123456789a":       false,
		"7+1234567890":       false,
		"":                   false,
	} {
		require.Equal(t, want, ValidPhone(phone), phone)
	}
}

func TestValidAddress(t *testing.T) {
	t.Parallel()

	require.True(t, ValidAddress("Spb Vosstania 1"))
	require.False(t, ValidAddress("   "))
}
