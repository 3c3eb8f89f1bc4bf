package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer = "cestas"
	TokenType   = "Bearer"
)

// tokenClaims — содержимое bearer-токена.
type tokenClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// TokenBackend — HS256 JWT в заголовке Authorization. Отзыва нет: токен
// живёт до exp.
type TokenBackend struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenBackend(key []byte, ttl time.Duration) (*TokenBackend, error) {
	if len(key) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenBackend{key: key, ttl: ttl, now: time.Now}, nil
}

func (b *TokenBackend) Issue(_ http.ResponseWriter, _ *http.Request, p Principal) (Issued, error) {
	tok, p, err := b.sign(p)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Principal: p, Token: tok, TokenType: TokenType, ExpiresAt: p.ExpiresAt}, nil
}

func (b *TokenBackend) sign(p Principal) (string, Principal, error) {
	now := b.now().Truncate(time.Second)
	p.Method = MethodToken
	p.IssuedAt = now
	p.ExpiresAt = now.Add(b.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
			ID:        uuid.NewString(),
		},
		Name: p.Name,
		Role: p.Role,
	})
	s, err := token.SignedString(b.key)
	if err != nil {
		return "", Principal{}, fmt.Errorf("sign token: %w", err)
	}
	return s, p, nil
}

func (b *TokenBackend) Authenticate(r *http.Request) (Principal, error) {
	raw, ok := BearerToken(r)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	return b.parse(raw)
}

func (b *TokenBackend) parse(raw string) (Principal, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return b.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(b.now),
	)
	if err != nil {
		return Principal{}, unauthenticated(err)
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.Role == "" || claims.IssuedAt == nil {
		return Principal{}, unauthenticated(errors.New("malformed claims"))
	}
	return Principal{
		UserID:    uid,
		Name:      claims.Name,
		Role:      claims.Role,
		Method:    MethodToken,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (b *TokenBackend) Revoke(http.ResponseWriter, *http.Request) error {
	return nil
}

// BearerToken достаёт токен из "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	scheme, tok, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, TokenType) {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
