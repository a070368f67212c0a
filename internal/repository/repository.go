// Package repository declares the storage contracts used by the services.
// Implementations return ErrNotFound for missing records.
package repository

import (
	"context"
	"time"

	"worklog/internal/models"
)

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionRepository stores server-side sessions. DeleteSession is
// idempotent.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// EntryFilter narrows ListEntries. The zero value lists every entry.
type EntryFilter struct {
	OwnerID *int64
}

type EntryRepository interface {
	CreateEntry(ctx context.Context, e *models.Entry) error
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]models.EntryView, error)
	UpdateEntry(ctx context.Context, e *models.Entry) error
	DeleteEntry(ctx context.Context, id int64) error
}
