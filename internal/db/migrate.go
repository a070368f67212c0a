package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema up to date using the migration set for the
// connection's dialect.
func (db *DB) Migrate(ctx context.Context, log logrus.FieldLogger) error {
	goose.SetBaseFS(migrations)
	if log != nil {
		goose.SetLogger(gooseLogger{log})
	}
	if err := goose.SetDialect(db.driver); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations/"+db.driver); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through logrus without letting goose
// terminate the process.
type gooseLogger struct {
	log logrus.FieldLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}
