//go:build integration

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/cache"
	"github.com/tickdown/tickdown/internal/testutil"
)

// Test401Unauthorized verifies the auth error response format.
func TestIntegration401Unauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAuthError(rec, "TOKEN_MISSING", "Missing bearer token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type")
	}

	body := rec.Body.String()
	if body == "" {
		t.Error("Expected error body")
	}

	// The envelope is flat: error and code are both top-level strings.
	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Error body is not a flat {error, code} object: %v, got: %s", err, body)
	}
	if resp.Error == "" {
		t.Errorf("Expected non-empty error message, got: %s", body)
	}
	if resp.Code != "TOKEN_MISSING" {
		t.Errorf("Expected code TOKEN_MISSING, got %q", resp.Code)
	}
}

// TestExtractBearerToken tests token extraction from the header.
func TestIntegrationExtractBearerToken(t *testing.T) {
	testCases := []struct {
		name       string
		authHeader string
		want       string
	}{
		{
			name:       "Bearer token",
			authHeader: "Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig",
			want:       "eyJhbGciOiJIUzI1NiJ9.payload.sig",
		},
		{
			name: "No header",
			want: "",
		},
		{
			name:       "Basic auth rejected",
			authHeader: "Basic abc123",
			want:       "",
		},
		{
			name:       "Bare token rejected",
			authHeader: "eyJhbGciOiJIUzI1NiJ9.payload.sig",
			want:       "",
		},
		{
			name:       "Whitespace trimmed",
			authHeader: "Bearer  token-with-space ",
			want:       "token-with-space",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			got := extractBearerToken(req)
			if got != tc.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestAuthFlow exercises the full middleware against a real blacklist.
func TestIntegrationAuthFlow(t *testing.T) {
	ctx, c, issuer := newAuthTestEnv(t)

	mw := Auth(AuthConfig{
		Logger: slog.New(slog.NewTextHandler(testWriter{t}, nil)),
		Issuer: issuer,
		Cache:  c,
	})

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())
		if session != nil {
			gotUserID = session.UserID
		}
		w.WriteHeader(http.StatusOK)
	})

	token, expiresAt, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	t.Run("missing_token", func(t *testing.T) {
		rec := doAuthRequest(mw, next, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if !contains(rec.Body.String(), "TOKEN_MISSING") {
			t.Errorf("Expected TOKEN_MISSING code, got: %s", rec.Body.String())
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		rec := doAuthRequest(mw, next, "Bearer not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if !contains(rec.Body.String(), "TOKEN_INVALID") {
			t.Errorf("Expected TOKEN_INVALID code, got: %s", rec.Body.String())
		}
	})

	t.Run("expired_token", func(t *testing.T) {
		expired := auth.NewIssuer(testJWTSecret, -time.Minute)
		expiredToken, _, err := expired.Issue("user-42")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		rec := doAuthRequest(mw, next, "Bearer "+expiredToken)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if !contains(rec.Body.String(), "TOKEN_EXPIRED") {
			t.Errorf("Expected TOKEN_EXPIRED code, got: %s", rec.Body.String())
		}
	})

	t.Run("valid_token", func(t *testing.T) {
		rec := doAuthRequest(mw, next, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUserID != "user-42" {
			t.Errorf("Expected session user user-42, got %q", gotUserID)
		}
	})

	t.Run("revoked_token", func(t *testing.T) {
		if err := c.RevokeToken(ctx, token, expiresAt); err != nil {
			t.Fatalf("RevokeToken failed: %v", err)
		}
		rec := doAuthRequest(mw, next, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if !contains(rec.Body.String(), "TOKEN_REVOKED") {
			t.Errorf("Expected TOKEN_REVOKED code, got: %s", rec.Body.String())
		}
	})
}

// TestGetClientIP verifies IP extraction from various headers.
func TestIntegrationGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "X-Forwarded-For single",
			xff:        "1.2.3.4",
			remoteAddr: "127.0.0.1:8080",
			want:       "1.2.3.4",
		},
		{
			name:       "X-Forwarded-For multiple",
			xff:        "1.2.3.4, 5.6.7.8, 9.10.11.12",
			remoteAddr: "127.0.0.1:8080",
			want:       "1.2.3.4",
		},
		{
			name:       "X-Real-IP",
			xri:        "1.2.3.4",
			remoteAddr: "127.0.0.1:8080",
			want:       "1.2.3.4",
		},
		{
			name:       "Fallback to RemoteAddr",
			remoteAddr: "192.168.1.1:12345",
			want:       "192.168.1.1:12345",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				req.Header.Set("X-Real-IP", tc.xri)
			}
			req.RemoteAddr = tc.remoteAddr

			got := getClientIP(req)
			if got != tc.want {
				t.Errorf("getClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

const testJWTSecret = "integration-test-secret"

func newAuthTestEnv(t *testing.T) (context.Context, *cache.Cache, *auth.Issuer) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c, auth.NewIssuer(testJWTSecret, time.Hour)
}

func doAuthRequest(mw func(http.Handler) http.Handler, next http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/session/user", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

// testWriter routes middleware logs through the test log.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// contains is a helper to check if a string contains a substring.
func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
