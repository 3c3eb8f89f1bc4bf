package auth

import (
	"fmt"
	"net/http"
	"time"

	"Cestas/internal/config"

	"github.com/gorilla/sessions"
)

// Issued — результат выпуска контекста после успешного входа.
// Token пуст в режиме session.
type Issued struct {
	Principal Principal
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// Backend — способ доставки аутентифицированного контекста клиенту и
// обратно. Реализация выбирается при старте по AUTH_MODE.
type Backend interface {
	Issue(w http.ResponseWriter, r *http.Request, p Principal) (Issued, error)
	// Authenticate: нет контекста, он просрочен или подделан — ErrUnauthenticated.
	Authenticate(r *http.Request) (Principal, error)
	// Revoke — выход. Для токенов ничего не делает: отзыва нет.
	Revoke(w http.ResponseWriter, r *http.Request) error
}

type BackendConfig struct {
	Mode string

	SessionStore  sessions.Store
	SessionName   string
	SessionTTL    time.Duration
	SecureCookies bool

	TokenKey []byte
	TokenTTL time.Duration
}

func NewBackend(cfg BackendConfig) (Backend, error) {
	switch cfg.Mode {
	case config.AuthModeSession:
		return newSessionBackendFrom(cfg)
	case config.AuthModeToken:
		return NewTokenBackend(cfg.TokenKey, cfg.TokenTTL)
	case config.AuthModeHybrid:
		sb, err := newSessionBackendFrom(cfg)
		if err != nil {
			return nil, err
		}
		tb, err := NewTokenBackend(cfg.TokenKey, cfg.TokenTTL)
		if err != nil {
			return nil, err
		}
		return NewHybridBackend(sb, tb), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

func newSessionBackendFrom(cfg BackendConfig) (*SessionBackend, error) {
	if cfg.SessionStore == nil {
		return nil, fmt.Errorf("session store is required for %q mode", cfg.Mode)
	}
	return NewSessionBackend(cfg.SessionStore, cfg.SessionName, cfg.SessionTTL, cfg.SecureCookies), nil
}

func unauthenticated(reason error) error {
	if reason == nil {
		return ErrUnauthenticated
	}
	return fmt.Errorf("%w: %v", ErrUnauthenticated, reason)
}
