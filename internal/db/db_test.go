package db

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"worklog/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := Init(context.Background(), DriverSQLite, ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), username, "hash-"+username)
	require.NoError(t, err)
	return u
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 1, hour, minute, 0, 0, time.UTC)
}
