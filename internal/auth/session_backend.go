package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const DefaultSessionName = "cestas_session"

// ключи значений в сессии
const (
	keyUserID   = "uid"
	keyName     = "name"
	keyRole     = "role"
	keyIssuedAt = "iat"
	keyExpires  = "exp"
)

// SessionBackend хранит Principal на сервере; в куке только id сессии.
type SessionBackend struct {
	store  sessions.Store
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionBackend(store sessions.Store, name string, ttl time.Duration, secure bool) *SessionBackend {
	if name == "" {
		name = DefaultSessionName
	}
	return &SessionBackend{store: store, name: name, ttl: ttl, secure: secure, now: time.Now}
}

func (b *SessionBackend) options(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   b.secure,
	}
}

// Issue всегда создаёт новую сессию с новым id.
func (b *SessionBackend) Issue(w http.ResponseWriter, r *http.Request, p Principal) (Issued, error) {
	now := b.now()
	p.Method = MethodSession
	p.IssuedAt = now
	p.ExpiresAt = now.Add(b.ttl)

	sess := sessions.NewSession(b.store, b.name)
	sess.Options = b.options(int(b.ttl.Seconds()))
	sess.Values[keyUserID] = p.UserID
	sess.Values[keyName] = p.Name
	sess.Values[keyRole] = p.Role
	sess.Values[keyIssuedAt] = p.IssuedAt.Unix()
	sess.Values[keyExpires] = p.ExpiresAt.Unix()

	if err := sess.Save(r, w); err != nil {
		return Issued{}, err
	}
	return Issued{Principal: p, ExpiresAt: p.ExpiresAt}, nil
}

func (b *SessionBackend) Authenticate(r *http.Request) (Principal, error) {
	sess, err := b.store.Get(r, b.name)
	if err != nil {
		return Principal{}, unauthenticated(err)
	}
	if sess == nil || sess.IsNew {
		return Principal{}, ErrUnauthenticated
	}

	uid, ok1 := sess.Values[keyUserID].(int64)
	name, ok2 := sess.Values[keyName].(string)
	role, ok3 := sess.Values[keyRole].(string)
	iat, ok4 := sess.Values[keyIssuedAt].(int64)
	exp, ok5 := sess.Values[keyExpires].(int64)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Principal{}, unauthenticated(errors.New("malformed session"))
	}

	p := Principal{
		UserID:    uid,
		Name:      name,
		Role:      role,
		Method:    MethodSession,
		IssuedAt:  time.Unix(iat, 0),
		ExpiresAt: time.Unix(exp, 0),
	}
	if p.Expired(b.now()) {
		return Principal{}, unauthenticated(errors.New("session expired"))
	}
	return p, nil
}

// Revoke удаляет запись на сервере и просит браузер забыть куку.
func (b *SessionBackend) Revoke(w http.ResponseWriter, r *http.Request) error {
	sess, err := b.store.Get(r, b.name)
	if sess == nil {
		return err
	}
	if sess.IsNew {
		return nil
	}
	sess.Options = b.options(-1)
	return sess.Save(r, w)
}
