// Package service contains the business logic layer. Handlers parse
// HTTP and delegate here; services enforce the rules and orchestrate
// the repositories. Services return apperror values, never HTTP status
// codes, so the same logic could back a CLI or a job runner unchanged.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devhuddle/doubtboard/internal/auth"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

// AuthService orchestrates login, logout and the current-user lookup.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with its dependencies.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// AuthResult bundles what a completed login produces: the stored user
// and the signed token the handler puts in the cookie.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login turns a verified provider identity into a logged-in user.
//
// The user is upserted (first login inserts, later logins refresh the
// profile), a session row is created, and a token naming both is
// signed. The session, not the token, is the source of truth: deleting
// it revokes the login.
func (s *AuthService) Login(ctx context.Context, identity *auth.Identity) (*AuthResult, error) {
	if identity == nil {
		return nil, fmt.Errorf("service/auth: identity must not be nil")
	}

	user := &model.User{
		ID:              identity.Subject,
		Email:           identity.Email,
		FirstName:       identity.FirstName,
		LastName:        identity.LastName,
		ProfileImageURL: identity.AvatarURL,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user %s: %w", identity.Subject, err)
	}

	session := &model.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(auth.TokenLifetime),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("service/auth: creating session for user %s: %w", user.ID, err)
	}

	token, err := s.tokens.Generate(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("sessionID", session.ID),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the session behind the current login. Logging out of
// an already-dead session succeeds quietly.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("service/auth: deleting session %s: %w", sessionID, err)
	}

	s.logger.Info("user logged out", slog.String("sessionID", sessionID))
	return nil
}

// CurrentUser returns the profile of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: getting user %s: %w", userID, err)
	}
	return user, nil
}

// CleanupExpiredSessions purges dead sessions. The server runs it
// periodically in the background.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("service/auth: cleaning up sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", slog.Int64("count", n))
	}
	return nil
}
