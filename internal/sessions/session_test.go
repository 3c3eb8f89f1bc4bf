package sessions

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Cestas/internal/config"

	gsessions "github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const name = "test_session"

func TestDeriveKeys(t *testing.T) {
	k := DeriveKeys("0123456789abcdef")
	assert.Len(t, k.Auth, 32)
	assert.Len(t, k.Enc, 32)
	assert.Len(t, k.JWT, 32)
	assert.False(t, bytes.Equal(k.Auth, k.Enc))
	assert.False(t, bytes.Equal(k.Auth, k.JWT))
	assert.Equal(t, k, DeriveKeys("0123456789abcdef"))
	assert.NotEqual(t, k, DeriveKeys("0123456789abcdeF"))
}

func newStore() *MemoryStore {
	k := DeriveKeys("0123456789abcdef")
	return NewMemoryStore(k.Auth, k.Enc)
}

// save создаёт сессию с одним значением и возвращает выставленные куки.
func save(t *testing.T, s *MemoryStore) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.Get(req, name)
	require.NoError(t, err)
	assert.True(t, sess.IsNew)

	sess.Values["role"] = "admin"
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req, rec))
	return rec.Result().Cookies()
}

func load(s *MemoryStore, cookies []*http.Cookie) (*gsessions.Session, error) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.Get(req, name)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := newStore()
	cookies := save(t, s)
	require.Len(t, cookies, 1)
	assert.NotContains(t, cookies[0].Value, "admin")

	sess, err := load(s, cookies)
	require.NoError(t, err)
	assert.False(t, sess.IsNew)
	assert.Equal(t, "admin", sess.Values["role"])
	assert.NotEmpty(t, sess.ID)
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s := newStore()
	cookies := save(t, s)

	sess, err := load(s, cookies)
	require.NoError(t, err)
	sess.Values["role"] = "volunteer" // без Save не должно попасть в хранилище

	again, err := load(s, cookies)
	require.NoError(t, err)
	assert.Equal(t, "admin", again.Values["role"])
}

func TestMemoryStore_Delete(t *testing.T) {
	s := newStore()
	cookies := save(t, s)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	sess, err := s.Get(req, name)
	require.NoError(t, err)
	sess.Options.MaxAge = -1
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req, rec))
	assert.Equal(t, 0, s.Len())

	again, err := load(s, cookies)
	require.NoError(t, err)
	assert.True(t, again.IsNew)
}

func TestMemoryStore_ExpiredRecordIsDropped(t *testing.T) {
	s := newStore()
	s.MaxAge(60)
	cookies := save(t, s)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	sess, err := load(s, cookies)
	require.NoError(t, err)
	assert.True(t, sess.IsNew)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_BadCookie(t *testing.T) {
	s := newStore()
	sess, err := load(s, []*http.Cookie{{Name: name, Value: "garbage"}})
	assert.Error(t, err)
	require.NotNil(t, sess)
	assert.True(t, sess.IsNew)
}

func TestNewStore(t *testing.T) {
	keys := DeriveKeys("0123456789abcdef")

	mem, err := NewStore(config.Auth{SessionStore: config.SessionStoreMemory, SessionTTL: time.Hour, CookieSecure: true}, keys)
	require.NoError(t, err)
	ms, ok := mem.(*MemoryStore)
	require.True(t, ok)
	assert.Equal(t, 3600, ms.Options.MaxAge)
	assert.True(t, ms.Options.Secure)
	assert.True(t, ms.Options.HttpOnly)

	fs, err := NewStore(config.Auth{SessionStore: config.SessionStoreFilesystem, SessionDir: t.TempDir(), SessionTTL: time.Hour}, keys)
	require.NoError(t, err)
	assert.IsType(t, &gsessions.FilesystemStore{}, fs)

	_, err = NewStore(config.Auth{SessionStore: "redis"}, keys)
	assert.Error(t, err)
}

func TestFilesystemStore_RoundTrip(t *testing.T) {
	keys := DeriveKeys("0123456789abcdef")
	store, err := NewStore(config.Auth{SessionStore: config.SessionStoreFilesystem, SessionDir: t.TempDir(), SessionTTL: time.Hour}, keys)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := store.Get(req, name)
	require.NoError(t, err)
	sess.Values["uid"] = int64(7)
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req, rec))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	got, err := store.Get(req, name)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Values["uid"])
}
