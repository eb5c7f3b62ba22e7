// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/metrics"
	"github.com/tickdown/tickdown/internal/model"
	"github.com/tickdown/tickdown/internal/repository"
)

// Service errors.
var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidPassword   = errors.New("password must be between 8 and 64 characters")
	ErrEmailExists       = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Email validation: local@domain with at least one dot in the domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minEmailLength    = 3
	maxEmailLength    = 100
	minPasswordLength = 8
	maxPasswordLength = 64
)

// UserService handles account business logic.
type UserService struct {
	repo       *repository.Repository
	bcryptCost int
	metrics    metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, bcryptCost int, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		metrics:    recorder,
	}
}

// Register creates a new account with a hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// UpdateUserInput defines input for updating an account.
// OldPassword must match the stored hash before any change is applied.
type UpdateUserInput struct {
	UserID      string
	OldPassword string
	Email       *string
	NewPassword *string
}

// UpdateUser changes a user's email and/or password.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !auth.VerifyPassword(input.OldPassword, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if input.NewPassword != nil {
		if err := validatePassword(*input.NewPassword); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*input.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.metrics.IncUserUpdated()

	return user, nil
}

// DeleteUser removes an account and all tasks it owns.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.metrics.IncUserDeleted()

	return nil
}

// normalizeEmail lowercases and trims an email so the same address is
// stored and looked up in one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail checks email length and shape.
func validateEmail(email string) error {
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// validatePassword checks password length bounds.
func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}
