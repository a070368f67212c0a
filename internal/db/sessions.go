package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"worklog/internal/models"
	"worklog/internal/repository"
)

func (db *DB) CreateSession(ctx context.Context, s *models.Session) error {
	query, args, err := db.sq.Insert("sessions").
		Columns("id", "user_id", "created_at", "expires_at").
		Values(s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC()).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (db *DB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query, args, err := db.sq.Select("id", "user_id", "created_at", "expires_at").
		From("sessions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s := &models.Session{}
	err = db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

// DeleteSession removes the session if present. Deleting an unknown id is
// not an error.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	query, args, err := db.sq.Delete("sessions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := db.sq.Delete("sessions").
		Where(sq.LtOrEq{"expires_at": now.UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
