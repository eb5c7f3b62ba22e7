package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/cache"
	"github.com/tickdown/tickdown/internal/handler/dto"
	"github.com/tickdown/tickdown/internal/metrics"
	"github.com/tickdown/tickdown/internal/model"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Issuer  *auth.Issuer
	Cache   *cache.Cache
	Metrics metrics.Recorder
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, verifies
// its signature and expiry, checks the revocation blacklist, and
// injects the session into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				recorder.IncAuthRejected("missing")
				writeAuthError(w, "TOKEN_MISSING", "Missing bearer token")
				return
			}

			claims, err := cfg.Issuer.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					logAuthFailure(cfg.Logger, r, "expired_token")
					recorder.IncAuthRejected("expired")
					writeAuthError(w, "TOKEN_EXPIRED", "Token has expired")
					return
				}
				logAuthFailure(cfg.Logger, r, "invalid_token")
				recorder.IncAuthRejected("invalid")
				writeAuthError(w, "TOKEN_INVALID", "Invalid token")
				return
			}

			// Fail closed: an unreachable blacklist rejects the request
			// rather than letting a possibly revoked token through.
			revoked, err := cfg.Cache.IsTokenRevoked(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("blacklist check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthRejected("invalid")
				writeAuthError(w, "TOKEN_INVALID", "Invalid token")
				return
			}
			if revoked {
				logAuthFailure(cfg.Logger, r, "revoked_token")
				recorder.IncAuthRejected("revoked")
				writeAuthError(w, "TOKEN_REVOKED", "Token has been revoked")
				return
			}

			session := &model.Session{
				UserID:    claims.UserID(),
				Token:     token,
				ExpiresAt: claims.ExpiresAt.Time,
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", session.UserID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// extractBearerToken extracts the token from the Authorization header.
// Only the "Bearer <token>" form is accepted.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// writeAuthError writes a 401 Unauthorized response in the same flat
// {error, code} envelope the handlers use.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Code: code})
}
