package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"worklog/internal/models"
	"worklog/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSessionRepo) GetSession(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSessionRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) CreateEntry(ctx context.Context, e *models.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEntryRepo) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Entry)
	return e, args.Error(1)
}

func (m *mockEntryRepo) ListEntries(ctx context.Context, filter repository.EntryFilter) ([]models.EntryView, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]models.EntryView)
	return v, args.Error(1)
}

func (m *mockEntryRepo) UpdateEntry(ctx context.Context, e *models.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEntryRepo) DeleteEntry(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
