package service

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	longLocal := strings.Repeat("a", maxEmailLength) + "@example.com"

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"empty", "", ErrInvalidEmail},
		{"too_short", "a@", ErrInvalidEmail},
		{"too_long", longLocal, ErrInvalidEmail},
		{"missing_at", "user.example.com", ErrInvalidEmail},
		{"missing_domain_dot", "user@localhost", ErrInvalidEmail},
		{"spaces", "user name@example.com", ErrInvalidEmail},
		{"valid", "user@example.com", nil},
		{"valid_subdomain", "user@mail.example.co.uk", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validateEmail(test.email)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"already_canonical", "user@example.com", "user@example.com"},
		{"uppercase_local", "User@example.com", "user@example.com"},
		{"uppercase_domain", "user@Example.COM", "user@example.com"},
		{"mixed_case", "UsEr@ExAmPlE.cOm", "user@example.com"},
		{"surrounding_whitespace", "  user@example.com\t", "user@example.com"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := normalizeEmail(test.email); got != test.want {
				t.Fatalf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"empty", "", ErrInvalidPassword},
		{"too_short", "seven77", ErrInvalidPassword},
		{"too_long", strings.Repeat("x", maxPasswordLength+1), ErrInvalidPassword},
		{"min_length", "eight888", nil},
		{"max_length", strings.Repeat("x", maxPasswordLength), nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validatePassword(test.password)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}
