package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"Cestas/internal/logging"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockOpen(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "postgres", driver)
		return db, nil
	}
	t.Cleanup(func() {
		sqlOpen = orig
		_ = db.Close()
	})
	return mock
}

func TestOpen_Success(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectPing()

	got, err := Open(context.Background(), "host=x", "host=x", DefaultPool, logging.Nop())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_PingFails(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	_, err := Open(context.Background(), "host=x", "host=x", DefaultPool, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping failed")
}

func TestConnect_DoesNotPing(t *testing.T) {
	mock := withMockOpen(t)

	got, err := Connect("host=x", DefaultPool)
	require.NoError(t, err)
	require.NotNil(t, got)
	// ни одного ping не ожидалось
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = Ping(context.Background(), got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping failed")
}

func TestOpen_OpenFails(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
	defer func() { sqlOpen = orig }()

	_, err := Open(context.Background(), "x", "x", DefaultPool, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open failed")
}

func TestMigrate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	t.Run("ok", func(t *testing.T) {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			if dir != "." {
				return errors.New("unexpected dir")
			}
			return nil
		}
		require.NoError(t, Migrate(context.Background(), db))
	})

	t.Run("error", func(t *testing.T) {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return errors.New("boom")
		}
		err := Migrate(context.Background(), db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}
