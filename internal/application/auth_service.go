package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 24 * time.Hour

// AuthService issues and validates authentication sessions.
type AuthService struct {
	users       UserRepository
	sessions    SessionRepository
	logger      *slog.Logger
	now         func() time.Time
	idGenerator func() string
	sessionTTL  time.Duration
}

// NewAuthService wires an AuthService. A zero ttl falls back to
// DefaultSessionTTL.
func NewAuthService(users UserRepository, sessions SessionRepository, logger *slog.Logger, now func() time.Time, idGenerator func() string, ttl time.Duration) *AuthService {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:       users,
		sessions:    sessions,
		logger:      defaultLogger(logger),
		now:         now,
		idGenerator: idGenerator,
		sessionTTL:  ttl,
	}
}

// Login verifies the credentials and issues a session. Unknown accounts and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (session Session, user User, err error) {
	logger := serviceLogger(ctx, s.logger, "auth", "Login")
	defer func() {
		if err != nil {
			logger.Warn("login failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("login succeeded", "user_id", user.ID)
	}()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, User{}, ErrInvalidCredentials
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, User{}, ErrInvalidCredentials
		}
		return Session{}, User{}, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return Session{}, User{}, err
	}
	if !ok {
		return Session{}, User{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return Session{}, User{}, err
	}

	now := s.now().UTC()
	session, err = s.sessions.CreateSession(ctx, Session{
		ID:        s.idGenerator(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	})
	if err != nil {
		return Session{}, User{}, err
	}
	return session, user, nil
}

// Logout revokes the session behind the token. Revoking an unknown or
// already revoked token reports ErrNotFound.
func (s *AuthService) Logout(ctx context.Context, token string) (err error) {
	logger := serviceLogger(ctx, s.logger, "auth", "Logout")
	defer func() {
		if err != nil {
			logger.Warn("logout failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("logout succeeded")
	}()

	_, err = s.sessions.RevokeSession(ctx, token, s.now().UTC())
	return err
}

// Authenticate resolves a session token into the acting principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrInvalidCredentials
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, err
	}
	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().UTC().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, err
	}
	return Principal{UserID: user.ID, Role: user.Role}, nil
}

// SweepExpiredSessions deletes sessions that expired before now. Meant to be
// run periodically by the composition root.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpiredSessions(ctx, s.now().UTC())
}

func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
