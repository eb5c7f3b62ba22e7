package dto

import (
	"time"

	"github.com/tickdown/tickdown/internal/model"
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,min=3,max=100,email"`
	Password        string `json:"password" validate:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// RegisterResponse is the success shape for registration. The same
// shape is returned whether or not the email was already taken.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateUserRequest represents the request body for updating an account.
// OldPassword is always required as proof of possession.
type UpdateUserRequest struct {
	OldPassword     string  `json:"old_password" validate:"required"`
	Email           *string `json:"email,omitempty" validate:"omitempty,min=3,max=100,email"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,min=8,max=64"`
	ConfirmPassword *string `json:"confirm_password,omitempty" validate:"required_with=NewPassword,omitempty,eqfield=NewPassword"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
