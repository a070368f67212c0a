package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"worklog/internal/models"
	"worklog/internal/repository"
	"worklog/internal/security"
)

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockSessionRepo) {
	t.Helper()
	users := &mockUserRepo{}
	sessions := &mockSessionRepo{}
	svc := NewAuthService(users, sessions, time.Hour, quietLogger())
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "sid-fixed" }
	t.Cleanup(func() {
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})
	return svc, users, sessions
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0, nil)
	assert.Equal(t, DefaultSessionTTL, svc.ttl)

	assert.Panics(t, func() { NewAuthService(nil, &mockSessionRepo{}, time.Hour, nil) })
}

func TestLogin_Success(t *testing.T) {
	svc, users, sessions := newAuthService(t)
	ctx := context.Background()

	hash, err := security.HashPassword("pass1")
	require.NoError(t, err)
	users.On("GetUserByUsername", ctx, "user1").
		Return(&models.User{ID: 7, Username: "user1", PasswordHash: hash}, nil)
	sessions.On("CreateSession", ctx, mock.MatchedBy(func(s *models.Session) bool {
		return s.ID == "sid-fixed" && s.UserID == 7 &&
			s.CreatedAt.Equal(fixedNow) && s.ExpiresAt.Equal(fixedNow.Add(time.Hour))
	})).Return(nil)

	session, err := svc.Login(ctx, "user1", "pass1")
	require.NoError(t, err)
	assert.Equal(t, "sid-fixed", session.ID)
	assert.EqualValues(t, 7, session.UserID)
}

func TestLogin_Rejected(t *testing.T) {
	hash, err := security.HashPassword("pass1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		setup    func(users *mockUserRepo)
	}{
		{
			name:     "empty password",
			username: "user1",
			setup:    func(*mockUserRepo) {},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "pass1",
			setup: func(users *mockUserRepo) {
				users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
			},
		},
		{
			name:     "wrong password",
			username: "user1",
			password: "pass2",
			setup: func(users *mockUserRepo) {
				users.On("GetUserByUsername", mock.Anything, "user1").
					Return(&models.User{ID: 1, Username: "user1", PasswordHash: hash}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, sessions := newAuthService(t)
			tt.setup(users)

			session, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, session)
			sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_RepositoryFailure(t *testing.T) {
	svc, users, _ := newAuthService(t)
	boom := errors.New("db down")
	users.On("GetUserByUsername", mock.Anything, "user1").Return(nil, boom)

	_, err := svc.Login(context.Background(), "user1", "pass1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Logout(ctx, ""))

	sessions.On("DeleteSession", ctx, "sid").Return(nil).Twice()
	assert.NoError(t, svc.Logout(ctx, "sid"))
	assert.NoError(t, svc.Logout(ctx, "sid"))
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 3, Username: "user3"}
	valid := &models.Session{ID: "ok", UserID: 3, ExpiresAt: fixedNow.Add(time.Minute)}

	t.Run("valid session", func(t *testing.T) {
		svc, users, sessions := newAuthService(t)
		sessions.On("GetSession", ctx, "ok").Return(valid, nil)
		users.On("GetUserByID", ctx, int64(3)).Return(user, nil)

		got, err := svc.CurrentUser(ctx, "ok")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("no cookie", func(t *testing.T) {
		svc, _, _ := newAuthService(t)
		_, err := svc.CurrentUser(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _, sessions := newAuthService(t)
		sessions.On("GetSession", ctx, "gone").Return(nil, repository.ErrNotFound)

		_, err := svc.CurrentUser(ctx, "gone")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired session is dropped", func(t *testing.T) {
		svc, _, sessions := newAuthService(t)
		expired := &models.Session{ID: "old", UserID: 3, ExpiresAt: fixedNow}
		sessions.On("GetSession", ctx, "old").Return(expired, nil)
		sessions.On("DeleteSession", ctx, "old").Return(nil)

		_, err := svc.CurrentUser(ctx, "old")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, users, sessions := newAuthService(t)
		sessions.On("GetSession", ctx, "ok").Return(valid, nil)
		users.On("GetUserByID", ctx, int64(3)).Return(nil, repository.ErrNotFound)

		_, err := svc.CurrentUser(ctx, "ok")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestCleanupExpiredSessions(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()

	sessions.On("DeleteExpiredSessions", ctx, fixedNow).Return(int64(4), nil).Once()
	n, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	boom := errors.New("locked")
	sessions.On("DeleteExpiredSessions", ctx, fixedNow).Return(int64(0), boom).Once()
	_, err = svc.CleanupExpiredSessions(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestRunSessionSweeper_StopsOnCancel(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	sessions.On("DeleteExpiredSessions", mock.Anything, fixedNow).Return(int64(0), nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSessionSweeper(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
