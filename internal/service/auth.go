package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"worklog/internal/models"
	"worklog/internal/repository"
	"worklog/internal/security"
)

// DefaultSessionTTL is used when NewAuthService is given a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

// AuthService validates credentials and owns the session lifecycle.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
	log      logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, ttl time.Duration, log logrus.FieldLogger) *AuthService {
	if users == nil || sessions == nil {
		panic("auth service needs user and session repositories")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		log:      log.WithField("service", "auth"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Login checks the credentials and opens a new session for the user.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	logCtx := s.log.WithField("username", username)

	if username == "" || password == "" {
		logCtx.Warn("login rejected: missing credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logCtx.WithError(err).Error("login failed: user lookup")
			return nil, fmt.Errorf("auth.Login: %w", err)
		}
		security.BurnComparison(password)
		logCtx.Warn("login rejected: unknown user")
		return nil, ErrInvalidCredentials
	}

	if !security.ComparePasswords(user.PasswordHash, password) {
		logCtx.Warn("login rejected: wrong password")
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Second)
	session := &models.Session{
		ID:        s.newID(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		logCtx.WithError(err).Error("login failed: create session")
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	logCtx.WithField("user_id", user.ID).Info("user logged in")
	return session, nil
}

// Logout destroys the session. Unknown or empty ids are accepted.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	s.log.Debug("session destroyed")
	return nil
}

// CurrentUser resolves the user bound to sessionID. Missing, expired and
// orphaned sessions yield ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			s.log.WithError(err).Warn("failed to drop expired session")
		}
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}
	return user, nil
}

// CleanupExpiredSessions removes every session past its expiry and returns
// how many were deleted.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		s.log.WithError(err).Error("session cleanup failed")
		return 0, fmt.Errorf("auth.CleanupExpiredSessions: %w", err)
	}
	if n > 0 {
		s.log.WithField("count", n).Info("cleaned up expired sessions")
	}
	return n, nil
}

// RunSessionSweeper calls CleanupExpiredSessions every interval until ctx
// is cancelled.
func (s *AuthService) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.CleanupExpiredSessions(ctx)
		}
	}
}
