// Package sessions — хранилища серверных сессий для gorilla/sessions
// и ключи, производные от SECRET_KEY.
package sessions

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"Cestas/internal/config"

	gsessions "github.com/gorilla/sessions"
)

// Keys — независимые ключи из одного секрета: подпись и шифрование куки,
// подпись bearer-токенов.
type Keys struct {
	Auth []byte
	Enc  []byte
	JWT  []byte
}

// DeriveKeys: по sha256 с разными префиксами, длины подходят для securecookie.
func DeriveKeys(secret string) Keys {
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))
	j := sha256.Sum256([]byte("jwt:" + secret))
	return Keys{Auth: h[:], Enc: e[:], JWT: j[:]}
}

// DefaultOptions — параметры куки сессии.
func DefaultOptions(ttl time.Duration, secure bool) *gsessions.Options {
	return &gsessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode, // кука по GET тоже отправится
		Secure:   secure,               // локально false, за HTTPS-прокси — true
	}
}

// NewStore собирает хранилище по настройкам SESSION_STORE.
func NewStore(cfg config.Auth, keys Keys) (gsessions.Store, error) {
	opts := DefaultOptions(cfg.SessionTTL, cfg.CookieSecure)

	switch cfg.SessionStore {
	case config.SessionStoreMemory, "":
		s := NewMemoryStore(keys.Auth, keys.Enc)
		s.Options = opts
		s.MaxAge(opts.MaxAge)
		return s, nil
	case config.SessionStoreFilesystem:
		s := gsessions.NewFilesystemStore(cfg.SessionDir, keys.Auth, keys.Enc)
		s.MaxLength(0)
		s.MaxAge(opts.MaxAge)
		s.Options = opts
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
