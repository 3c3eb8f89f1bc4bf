// Package config собирает настройки сервиса из переменных окружения.
// Флаги командной строки (cmd) накладываются поверх.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	AuthModeSession = "session"
	AuthModeToken   = "token"
	AuthModeHybrid  = "hybrid"

	SessionStoreMemory     = "memory"
	SessionStoreFilesystem = "filesystem"

	minSecretLen = 16
)

var ErrInvalidConfig = errors.New("invalid config")

// Postgres — отдельные части DSN, если DATABASE_URL/POSTGRES_DSN не заданы.
type Postgres struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"DB" envDefault:"cestas"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"` // локально disable; в проде require/verify-full
}

// Auth — всё, что потребляет слой аутентификации.
type Auth struct {
	Mode      string `env:"AUTH_MODE" envDefault:"session"`
	SecretKey string `env:"SECRET_KEY"`

	// Аварийный администратор. Пароль — либо открытый, либо хэш.
	AdminUser         string `env:"ADMIN_USER"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SessionStore string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionDir   string        `env:"SESSION_DIR"`
	CookieSecure bool          `env:"APP_HTTPS" envDefault:"false"` // локально 0, за HTTPS-прокси — 1

	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"8h"`

	// StoreTimeout ограничивает поиск пользователя в БД при логине.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`

	// DevRoleBypass пропускает проверку ролей для любого вошедшего пользователя.
	// Только для локальной разработки.
	DevRoleBypass bool `env:"AUTH_DEV_ROLE_BYPASS" envDefault:"false"`
}

type Config struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port string `env:"PORT" envDefault:"8080"`

	// Приоритет: DATABASE_URL > POSTGRES_DSN > сборка из POSTGRES_*
	DatabaseURL string   `env:"DATABASE_URL"`
	PostgresDSN string   `env:"POSTGRES_DSN"`
	Postgres    Postgres `envPrefix:"POSTGRES_"`

	WebDir string `env:"WEB_DIR" envDefault:"web"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Auth Auth
}

// Parse читает окружение без проверки обязательных секретов.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Load = Parse + Validate. Без секретов сервис не стартует.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DSN возвращает строку подключения к Postgres.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.PostgresDSN != "" {
		return c.PostgresDSN
	}

	// lib/pq key=value формат
	p := c.Postgres
	parts := []string{
		"host=" + p.Host,
		"port=" + p.Port,
		"user=" + p.User,
		"dbname=" + p.Name,
		"sslmode=" + p.SSLMode,
	}
	if p.Password != "" {
		parts = append(parts, "password="+p.Password)
	}
	return strings.Join(parts, " ")
}

// SafeDSN — куда подключаемся, без пароля. Только для логов.
func (c *Config) SafeDSN() string {
	raw := c.DatabaseURL
	if raw == "" {
		raw = c.PostgresDSN
	}
	if raw == "" {
		p := c.Postgres
		return fmt.Sprintf("host=%s port=%s user=%s dbname=%s", p.Host, p.Port, p.User, p.Name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "dsn provided"
	}
	return u.Redacted()
}

// Validate проверяет обязательные секреты и диапазоны значений.
func (c *Config) Validate() error {
	var errs []error
	a := c.Auth

	if len(a.SecretKey) < minSecretLen {
		errs = append(errs, fmt.Errorf("SECRET_KEY must be at least %d bytes", minSecretLen))
	}
	if strings.TrimSpace(a.AdminUser) == "" {
		errs = append(errs, errors.New("ADMIN_USER is required"))
	}
	if a.AdminPassword == "" && a.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	}

	switch a.Mode {
	case AuthModeSession, AuthModeToken, AuthModeHybrid:
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", a.Mode))
	}

	switch a.SessionStore {
	case SessionStoreMemory:
	case SessionStoreFilesystem:
		if a.SessionDir == "" {
			errs = append(errs, errors.New("SESSION_DIR is required for filesystem session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", a.SessionStore))
	}

	if a.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if a.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if a.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
