package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, expiresAt, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if token == "" {
		t.Fatal("expected non-empty token")
	}

	wantExpiry := time.Now().Add(time.Hour)
	if expiresAt.Before(wantExpiry.Add(-time.Minute)) || expiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %s not within a minute of now+TTL", expiresAt)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if claims.UserID() != "user-123" {
		t.Errorf("expected user-123, got %s", claims.UserID())
	}

	if !claims.ExpiresAt.Time.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("claims expiry %s does not match issued expiry %s", claims.ExpiresAt.Time, expiresAt)
	}
}

func TestIssuer_VerifyExpired(t *testing.T) {
	// Negative TTL mints a deterministically expired token.
	issuer := NewIssuer("test-secret", -time.Minute)

	token, _, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestIssuer_VerifyWrongSecret(t *testing.T) {
	token, _, err := NewIssuer("secret-a", time.Hour).Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = NewIssuer("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssuer_VerifyMalformed(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "garbage"},
		{"two segments", "aaaa.bbbb"},
		{"bad base64", "a!.b!.c!"},
		// alg=none tokens must be rejected by the signing method check
		{"alg none", "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ1c2VyLTEyMyJ9."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			if !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestIssuer_VerifyMissingSubject(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, _, err := issuer.Issue("")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for empty subject, got %v", err)
	}
}
