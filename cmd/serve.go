package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"Cestas/internal/auth"
	"Cestas/internal/config"
	"Cestas/internal/dashboard"
	"Cestas/internal/db"
	"Cestas/internal/handlers"
	"Cestas/internal/logging"
	mw "Cestas/internal/middleware"
	"Cestas/internal/repositories/catalog"
	"Cestas/internal/repositories/deliveries"
	"Cestas/internal/repositories/families"
	"Cestas/internal/repositories/stock"
	"Cestas/internal/repositories/users"
	"Cestas/internal/server"
	"Cestas/internal/sessions"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr           string
	databaseURL    string
	webDir         string
	skipMigrations bool
	requireDB      bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "адрес host:port (по умолчанию HOST:PORT из окружения)")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "DSN Postgres, перекрывает DATABASE_URL")
	cmd.Flags().StringVar(&opts.webDir, "web-dir", "", "каталог статики, перекрывает WEB_DIR")
	cmd.Flags().BoolVar(&opts.skipMigrations, "skip-migrations", false, "не применять миграции при старте")
	cmd.Flags().BoolVar(&opts.requireDB, "require-db", false, "не стартовать, если БД недоступна или миграции не прошли")
	return cmd
}

// loadDBConfig — окружение плюс флаги поверх, без проверки секретов.
func loadDBConfig(opts serveOptions) (*config.Config, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}
	if opts.databaseURL != "" {
		cfg.DatabaseURL = opts.databaseURL
	}
	if opts.webDir != "" {
		cfg.WebDir = opts.webDir
	}
	return cfg, nil
}

// loadConfig — то же плюс Validate: серверу нужны секреты.
func loadConfig(opts serveOptions) (*config.Config, error) {
	cfg, err := loadDBConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	router, sqlDB, err := buildApp(ctx, cfg, opts, log)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	addr := cfg.Addr()
	if opts.addr != "" {
		addr = opts.addr
	}
	log.Info(ctx, "starting", "version", version, "auth_mode", cfg.Auth.Mode, "session_store", cfg.Auth.SessionStore)
	return server.New(addr, router, log).Run(ctx)
}

// openStore не роняет старт, если Postgres недоступен: вход остаётся за
// аварийным администратором, запросы к БД сами вернут ошибку.
// С --require-db любая ошибка фатальна.
func openStore(ctx context.Context, cfg *config.Config, opts serveOptions, log logging.Logger) (*sql.DB, error) {
	sqlDB, err := db.Connect(cfg.DSN(), db.DefaultPool)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx, sqlDB); err != nil {
		if opts.requireDB {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Warn(ctx, "db unreachable, only the emergency administrator can log in",
			"target", cfg.SafeDSN(), "err", err)
		return sqlDB, nil
	}
	log.Info(ctx, "db: connected", "target", cfg.SafeDSN())

	if opts.skipMigrations {
		return sqlDB, nil
	}
	if err := db.Migrate(ctx, sqlDB); err != nil {
		if opts.requireDB {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Warn(ctx, "migrations failed, retry on next start", "err", err)
		return sqlDB, nil
	}
	log.Info(ctx, "migrations applied")
	return sqlDB, nil
}

// buildApp собирает зависимости и роутер. Закрыть *sql.DB — забота вызывающего.
func buildApp(ctx context.Context, cfg *config.Config, opts serveOptions, log logging.Logger) (http.Handler, *sql.DB, error) {
	sqlDB, err := openStore(ctx, cfg, opts, log)
	if err != nil {
		return nil, nil, err
	}

	backend, err := newAuthBackend(cfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	if cfg.Auth.Mode == config.AuthModeToken {
		log.Warn(ctx, "AUTH_MODE=token: bundled web pages need session or hybrid mode, only the JSON API is usable")
	}

	svc := auth.NewService(
		users.NewPostgresRepository(sqlDB),
		auth.NewVerifier(),
		auth.EmergencyAdmin{
			Username:     cfg.Auth.AdminUser,
			Password:     cfg.Auth.AdminPassword,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		},
		cfg.Auth.StoreTimeout,
		log.With("component", "auth"),
	)
	guard := mw.NewGuard(backend, log.With("component", "guard"), cfg.Auth.DevRoleBypass)

	h := handlers.New(handlers.Deps{
		Auth:       svc,
		Backend:    backend,
		Families:   families.NewPostgresRepository(sqlDB),
		Deliveries: deliveries.NewPostgresRepository(sqlDB),
		Stock:      stock.NewPostgresRepository(sqlDB),
		Catalog:    catalog.NewPostgresRepository(sqlDB),
		Dashboard:  dashboard.NewService(sqlDB),
		Web:        afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), cfg.WebDir)),
		Log:        log,
	})
	return server.NewRouter(h, guard, log), sqlDB, nil
}

func newAuthBackend(cfg *config.Config) (auth.Backend, error) {
	keys := sessions.DeriveKeys(cfg.Auth.SecretKey)

	bc := auth.BackendConfig{
		Mode:          cfg.Auth.Mode,
		SessionTTL:    cfg.Auth.SessionTTL,
		SecureCookies: cfg.Auth.CookieSecure,
		TokenKey:      keys.JWT,
		TokenTTL:      cfg.Auth.TokenTTL,
	}
	if cfg.Auth.Mode != config.AuthModeToken {
		if cfg.Auth.SessionStore == config.SessionStoreFilesystem {
			if err := os.MkdirAll(cfg.Auth.SessionDir, 0o700); err != nil {
				return nil, fmt.Errorf("session dir: %w", err)
			}
		}
		store, err := sessions.NewStore(cfg.Auth, keys)
		if err != nil {
			return nil, err
		}
		bc.SessionStore = store
	}
	return auth.NewBackend(bc)
}
