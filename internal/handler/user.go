package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/handler/dto"
	"github.com/tickdown/tickdown/internal/service"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// registeredResponse is returned for every non-validation registration
// outcome so the endpoint cannot be used to probe which emails exist.
var registeredResponse = dto.RegisterResponse{
	Success: true,
	Message: "Account registered",
}

// Create handles POST /api/users (registration).
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Email must be valid, password 8-64 characters, confirmation matching")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			// Indistinguishable from a fresh registration.
			writeJSON(w, http.StatusCreated, registeredResponse)
			return
		}
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, registeredResponse)
}

// Update handles PUT /api/users/{userID}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Old password is required; new values must be valid")
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), service.UpdateUserInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Delete handles DELETE /api/users/{userID}. All tasks owned by the
// user are removed in the same operation.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUserID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// authorizedUserID resolves the {userID} path parameter and confirms it
// matches the authenticated session. A mismatch reads as not-found so
// the endpoint does not confirm which account IDs exist.
func (h *UserHandler) authorizedUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return "", false
	}

	session := auth.SessionFromContext(r.Context())
	if session == nil {
		h.writeError(w, http.StatusUnauthorized, "TOKEN_MISSING", "Authentication required")
		return "", false
	}

	if session.UserID != userID {
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return "", false
	}

	return userID, true
}

// handleServiceError maps user service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrIncorrectPassword):
		h.writeError(w, http.StatusUnauthorized, "INCORRECT_PASSWORD", "Old password is incorrect")
	case errors.Is(err, service.ErrEmailExists):
		h.writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already in use")
	case errors.Is(err, service.ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email address")
	case errors.Is(err, service.ErrInvalidPassword):
		h.writeError(w, http.StatusBadRequest, "INVALID_PASSWORD", "Password must be between 8 and 64 characters")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *UserHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
