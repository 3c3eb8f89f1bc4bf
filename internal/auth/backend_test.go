package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Cestas/internal/config"
	"Cestas/internal/models"
	"Cestas/internal/sessions"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = sessions.DeriveKeys("test-secret-0123456789")

var alice = Principal{UserID: 4, Name: "alice", Role: models.RoleVolunteer}

func newMemorySessionBackend() (*SessionBackend, *sessions.MemoryStore) {
	store := sessions.NewMemoryStore(testKeys.Auth, testKeys.Enc)
	return NewSessionBackend(store, "", time.Hour, false), store
}

func issue(t *testing.T, b Backend, p Principal) (Issued, []*http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	issued, err := b.Issue(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil), p)
	require.NoError(t, err)
	return issued, rec.Result().Cookies()
}

func requestWith(cookies []*http.Cookie, bearer string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	return r
}

func assertSamePrincipal(t *testing.T, want, got Principal) {
	t.Helper()
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Role, got.Role)
}

func TestSessionBackend_IssueAuthenticateRevoke(t *testing.T) {
	b, store := newMemorySessionBackend()

	issued, cookies := issue(t, b, alice)
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultSessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Empty(t, issued.Token)
	assert.Equal(t, MethodSession, issued.Principal.Method)
	assert.Equal(t, 1, store.Len())

	p, err := b.Authenticate(requestWith(cookies, ""))
	require.NoError(t, err)
	assertSamePrincipal(t, alice, p)
	assert.Equal(t, MethodSession, p.Method)
	assert.Equal(t, issued.ExpiresAt.Unix(), p.ExpiresAt.Unix())

	rec := httptest.NewRecorder()
	require.NoError(t, b.Revoke(rec, requestWith(cookies, "")))
	assert.Equal(t, 0, store.Len())
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Less(t, cleared[0].MaxAge, 0)

	// та же кука после выхода больше не пускает
	_, err = b.Authenticate(requestWith(cookies, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionBackend_NewIDOnEveryLogin(t *testing.T) {
	b, store := newMemorySessionBackend()

	_, first := issue(t, b, alice)
	_, second := issue(t, b, alice)
	assert.NotEqual(t, first[0].Value, second[0].Value)
	assert.Equal(t, 2, store.Len())
}

func TestSessionBackend_NoCookie(t *testing.T) {
	b, _ := newMemorySessionBackend()
	_, err := b.Authenticate(requestWith(nil, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.NoError(t, b.Revoke(httptest.NewRecorder(), requestWith(nil, "")))
}

func TestSessionBackend_TamperedCookie(t *testing.T) {
	b, _ := newMemorySessionBackend()
	_, cookies := issue(t, b, alice)
	cookies[0].Value = "A" + cookies[0].Value

	_, err := b.Authenticate(requestWith(cookies, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionBackend_ForeignKeys(t *testing.T) {
	b, _ := newMemorySessionBackend()
	_, cookies := issue(t, b, alice)

	other := sessions.DeriveKeys("another-secret-0123456789")
	b2 := NewSessionBackend(sessions.NewMemoryStore(other.Auth, other.Enc), "", time.Hour, false)
	_, err := b2.Authenticate(requestWith(cookies, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionBackend_Expired(t *testing.T) {
	b, _ := newMemorySessionBackend()
	_, cookies := issue(t, b, alice)

	b.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := b.Authenticate(requestWith(cookies, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func newTokenBackend(t *testing.T) *TokenBackend {
	t.Helper()
	b, err := NewTokenBackend(testKeys.JWT, time.Hour)
	require.NoError(t, err)
	return b
}

func TestTokenBackend_RoundTrip(t *testing.T) {
	b := newTokenBackend(t)

	issued, cookies := issue(t, b, alice)
	assert.Empty(t, cookies)
	assert.Equal(t, "Bearer", issued.TokenType)
	require.NotEmpty(t, issued.Token)

	p, err := b.Authenticate(requestWith(nil, issued.Token))
	require.NoError(t, err)
	assertSamePrincipal(t, alice, p)
	assert.Equal(t, MethodToken, p.Method)
	assert.Equal(t, issued.ExpiresAt.Unix(), p.ExpiresAt.Unix())

	r := requestWith(nil, "")
	r.Header.Set("Authorization", "bearer "+issued.Token)
	_, err = b.Authenticate(r)
	assert.NoError(t, err)
}

func TestTokenBackend_Rejects(t *testing.T) {
	b := newTokenBackend(t)
	issued, _ := issue(t, b, alice)

	other, err := NewTokenBackend([]byte("other-key"), time.Hour)
	require.NoError(t, err)
	foreign, _ := issue(t, other, alice)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "4", "role": "admin", "iss": TokenIssuer,
		"exp": time.Now().Add(time.Hour).Unix(), "iat": time.Now().Unix(),
	})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]*http.Request{
		"no header":     requestWith(nil, ""),
		"garbage":       requestWith(nil, "not.a.token"),
		"foreign key":   requestWith(nil, foreign.Token),
		"alg none":      requestWith(nil, noneToken),
		"basic scheme":  func() *http.Request { r := requestWith(nil, ""); r.SetBasicAuth("a", "b"); return r }(),
		"empty bearer":  func() *http.Request { r := requestWith(nil, ""); r.Header.Set("Authorization", "Bearer  "); return r }(),
		"mock prefixed": requestWith(nil, "MOCK_TOKEN_FOR_admin"),
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := b.Authenticate(r)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}

	b.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = b.Authenticate(requestWith(nil, issued.Token))
	assert.ErrorIs(t, err, ErrUnauthenticated, "expired token")
}

func TestTokenBackend_RevokeIsNoop(t *testing.T) {
	b := newTokenBackend(t)
	issued, _ := issue(t, b, alice)

	rec := httptest.NewRecorder()
	require.NoError(t, b.Revoke(rec, requestWith(nil, issued.Token)))
	assert.Empty(t, rec.Result().Cookies())

	_, err := b.Authenticate(requestWith(nil, issued.Token))
	assert.NoError(t, err)
}

func TestNewTokenBackend_Validation(t *testing.T) {
	_, err := NewTokenBackend(nil, time.Hour)
	assert.Error(t, err)
	_, err = NewTokenBackend([]byte("k"), 0)
	assert.Error(t, err)
}

func TestHybridBackend(t *testing.T) {
	sb, store := newMemorySessionBackend()
	b := NewHybridBackend(sb, newTokenBackend(t))

	issued, cookies := issue(t, b, alice)
	require.Len(t, cookies, 1)
	require.NotEmpty(t, issued.Token)

	p, err := b.Authenticate(requestWith(cookies, ""))
	require.NoError(t, err)
	assert.Equal(t, MethodSession, p.Method)

	p, err = b.Authenticate(requestWith(nil, issued.Token))
	require.NoError(t, err)
	assert.Equal(t, MethodToken, p.Method)
	assertSamePrincipal(t, alice, p)

	_, err = b.Authenticate(requestWith(nil, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, b.Revoke(httptest.NewRecorder(), requestWith(cookies, "")))
	assert.Equal(t, 0, store.Len())
	_, err = b.Authenticate(requestWith(cookies, ""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestHybridBackend_ExpiresAtIsEarliest(t *testing.T) {
	store := sessions.NewMemoryStore(testKeys.Auth, testKeys.Enc)
	sb := NewSessionBackend(store, "", 12*time.Hour, false)
	tb, err := NewTokenBackend(testKeys.JWT, 8*time.Hour)
	require.NoError(t, err)

	before := time.Now()
	issued, _ := issue(t, NewHybridBackend(sb, tb), alice)
	assert.WithinDuration(t, before.Add(8*time.Hour), issued.ExpiresAt, 5*time.Second)

	p, err := tb.Authenticate(requestWith(nil, issued.Token))
	require.NoError(t, err)
	assert.True(t, p.ExpiresAt.Equal(issued.ExpiresAt))

	// сессия короче токена — берётся срок сессии
	sb = NewSessionBackend(store, "", time.Hour, false)
	issued, _ = issue(t, NewHybridBackend(sb, tb), alice)
	assert.WithinDuration(t, before.Add(time.Hour), issued.ExpiresAt, 5*time.Second)
}

func TestNewBackend(t *testing.T) {
	store := sessions.NewMemoryStore(testKeys.Auth, testKeys.Enc)
	base := BackendConfig{SessionStore: store, SessionTTL: time.Hour, TokenKey: testKeys.JWT, TokenTTL: time.Hour}

	tests := []struct {
		mode string
		want any
	}{
		{config.AuthModeSession, &SessionBackend{}},
		{config.AuthModeToken, &TokenBackend{}},
		{config.AuthModeHybrid, &HybridBackend{}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := base
			cfg.Mode = tt.mode
			b, err := NewBackend(cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}

	_, err := NewBackend(BackendConfig{Mode: "mock"})
	assert.Error(t, err)

	_, err = NewBackend(BackendConfig{Mode: config.AuthModeSession})
	assert.Error(t, err)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)

	ctx := WithPrincipal(t.Context(), alice)
	got, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, alice, got)
	assert.True(t, got.HasRole(models.RoleAdmin, models.RoleVolunteer))
	assert.False(t, got.HasRole(models.RoleAdmin))
}
