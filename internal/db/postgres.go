package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Cestas/internal/logging"
	"Cestas/internal/migrations"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Pool — настройки пула соединений.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var DefaultPool = Pool{
	MaxOpenConns:    10,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
	ConnMaxIdleTime: 5 * time.Minute,
}

const pingTimeout = 5 * time.Second

// seams для тестов
var (
	sqlOpen        = sql.Open
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// Open подключается к Postgres и проверяет соединение.
// safeDSN попадает в лог вместо настоящего DSN (без пароля).
func Open(ctx context.Context, dsn, safeDSN string, pool Pool, log logging.Logger) (*sql.DB, error) {
	db, err := Connect(dsn, pool)
	if err != nil {
		return nil, err
	}
	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info(ctx, "db: connected", "target", safeDSN)
	return db, nil
}

// Connect только готовит пул: lib/pq соединяется при первом запросе.
func Connect(dsn string, pool Pool) (*sql.DB, error) {
	db, err := sqlOpen("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open failed: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	return db, nil
}

// Ping с таймаутом, чтобы не вешать процесс.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db: ping failed: %w", err)
	}
	return nil
}

// Migrate применяет встроенные миграции goose.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("db: goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
