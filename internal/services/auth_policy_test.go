package services

import (
	"errors"
	"testing"
)

func TestValidatePasswordStrengthRejectsWeakPasswords(t *testing.T) {
	testCases := []string{
		"Short1",
		"alllowercase1",
		"ALLUPPERCASE1",
		"NoDigitsHere",
	}

	for _, password := range testCases {
		if err := ValidatePasswordStrength(password); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword for %q, got %v", password, err)
		}
	}
}

func TestValidatePasswordStrengthAcceptsStrongPassword(t *testing.T) {
	if err := ValidatePasswordStrength("StrongPass1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestNormalizeAuthEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "  Jane@Example.COM ", want: "jane@example.com"},
		{raw: "", want: ""},
		{raw: "not-an-email", want: ""},
		{raw: "Jane <jane@example.com>", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeAuthEmail(tt.raw); got != tt.want {
			t.Fatalf("NormalizeAuthEmail(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
