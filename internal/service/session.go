package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/cache"
	"github.com/tickdown/tickdown/internal/metrics"
	"github.com/tickdown/tickdown/internal/model"
	"github.com/tickdown/tickdown/internal/repository"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so callers cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionService handles login and logout.
type SessionService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	issuer  *auth.Issuer
	metrics metrics.Recorder
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo *repository.Repository, cache *cache.Cache, issuer *auth.Issuer, recorder metrics.Recorder) *SessionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SessionService{
		repo:    repo,
		cache:   cache,
		issuer:  issuer,
		metrics: recorder,
	}
}

// LoginOutput carries the issued token and its owner.
type LoginOutput struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a session token.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginOutput, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLoginDuration(time.Since(start))
	}()

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncSessionCreated()

	return &LoginOutput{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session's token. The blacklist write must succeed
// before the session is reported as terminated.
func (s *SessionService) Logout(ctx context.Context, session *model.Session) error {
	if err := s.cache.RevokeToken(ctx, session.Token, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.metrics.IncSessionRevoked()

	return nil
}
