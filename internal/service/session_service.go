// Package service provides business logic services for Zettel.
package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/session"
)

// SessionService manages the login/logout state machine.
//
// A client connection is either anonymous or authenticated. Login moves it
// to authenticated on successful credential verification; logout moves it
// back unconditionally and is idempotent. Validation resolves the token to
// a user id and re-resolves the user through the credential store on every
// call; a session whose user no longer resolves is destroyed and denied.
type SessionService struct {
	users  *UserService
	store  *session.Store
	logger zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(users *UserService, store *session.Store, logger zerolog.Logger) *SessionService {
	return &SessionService{
		users:  users,
		store:  store,
		logger: logger.With().Str("service", "session").Logger(),
	}
}

// LoginInput contains the credentials presented at login.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the established session and the authenticated user.
type LoginOutput struct {
	Session *domain.Session
	User    *domain.User
}

// Login verifies the credentials and issues a session.
// On any failure the connection stays anonymous; the error distinguishes
// domain.ErrUserNotFound from domain.ErrWrongPassword.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.users.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	sess := s.store.Create(user.ID)

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("session created")

	return &LoginOutput{Session: sess, User: user}, nil
}

// Logout destroys the session for the given token.
// Always succeeds; logging out an unknown token is a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) {
	s.store.Destroy(token)
	s.logger.Info().Msg("session destroyed")
}

// Validate is the authorization gate: it allows iff the token resolves to
// a session whose user still exists in the credential store. It returns
// the resolved user on allow and domain.ErrSessionNotFound on deny.
// Validation itself has no side effects beyond dropping orphaned sessions.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.store.Get(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The user vanished underneath the session; the session
			// is dead and holding on to it only invites retries.
			s.store.Destroy(token)
			s.logger.Warn().Int64("user_id", sess.UserID).Msg("session user no longer resolves")
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return user, nil
}
