package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/handler/dto"
	"github.com/tickdown/tickdown/internal/service"
)

// SessionHandler handles HTTP requests for the session lifecycle.
type SessionHandler struct {
	svc    *service.SessionService
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/session (login).
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Email and password are required")
		return
	}

	out, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("session_created", "user_id", out.User.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		ID:      out.User.ID,
		Token:   out.Token,
	})
}

// Delete handles DELETE /api/session (logout). The presented token is
// blacklisted before the success status is written.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		h.writeError(w, http.StatusUnauthorized, "TOKEN_MISSING", "Authentication required")
		return
	}

	if err := h.svc.Logout(r.Context(), session); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("session_revoked", "user_id", session.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser handles GET /api/session/user.
func (h *SessionHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		h.writeError(w, http.StatusUnauthorized, "TOKEN_MISSING", "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionUserResponse{
		Success: true,
		ID:      session.UserID,
	})
}

// handleServiceError maps session service errors to HTTP responses.
func (h *SessionHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *SessionHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
