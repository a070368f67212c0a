package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"

	"worklog/internal/repository"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps the connection pool with a statement builder whose placeholder
// format matches the driver.
type DB struct {
	*sql.DB
	driver string
	sq     sq.StatementBuilderType
}

// Init opens the database, checks connectivity and applies migrations.
func Init(ctx context.Context, driver, dsn string, log logrus.FieldLogger) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// a single writer connection keeps per-connection pragmas in effect
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	db, err := New(conn, driver)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if driver == DriverSQLite {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.Migrate(ctx, log); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// New wraps an already opened connection without touching the schema.
func New(conn *sql.DB, driver string) (*DB, error) {
	var format sq.PlaceholderFormat
	switch driver {
	case DriverSQLite:
		format = sq.Question
	case DriverPostgres:
		format = sq.Dollar
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	return &DB{
		DB:     conn,
		driver: driver,
		sq:     sq.StatementBuilder.PlaceholderFormat(format),
	}, nil
}

func (db *DB) Driver() string {
	return db.driver
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(tx)
}

var (
	_ repository.UserRepository    = (*DB)(nil)
	_ repository.SessionRepository = (*DB)(nil)
	_ repository.EntryRepository   = (*DB)(nil)
)
