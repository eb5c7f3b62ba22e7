package dto

// LoginRequest represents the request body for creating a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,min=3,max=100,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token back to the caller. The token
// appears here exactly once; it is never persisted or re-sent.
type LoginResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Token   string `json:"token"`
}

// SessionUserResponse identifies the authenticated user.
type SessionUserResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
