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

var userColumns = []string{"id", "username", "password_hash", "created_at"}

func scanUser(row sq.RowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query, args, err := db.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(db.QueryRowContext(ctx, query, args...))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, err
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := db.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(db.QueryRowContext(ctx, query, args...))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, err
}

func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return createUser(ctx, db.sq, db.DB, username, passwordHash)
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createUser(ctx context.Context, b sq.StatementBuilderType, q queryRower, username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	query, args, err := b.Insert("users").
		Columns("username", "password_hash", "created_at").
		Values(user.Username, user.PasswordHash, user.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	if err := q.QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, nil
}

func (db *DB) CountUsers(ctx context.Context) (int, error) {
	query, args, err := db.sq.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
