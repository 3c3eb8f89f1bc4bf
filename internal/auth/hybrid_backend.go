package auth

import (
	"errors"
	"net/http"
)

// HybridBackend принимает сессию ИЛИ bearer-токен. При входе выдаёт оба.
type HybridBackend struct {
	session *SessionBackend
	token   *TokenBackend
}

func NewHybridBackend(session *SessionBackend, token *TokenBackend) *HybridBackend {
	return &HybridBackend{session: session, token: token}
}

func (b *HybridBackend) Issue(w http.ResponseWriter, r *http.Request, p Principal) (Issued, error) {
	issued, err := b.session.Issue(w, r, p)
	if err != nil {
		return Issued{}, err
	}
	tok, tp, err := b.token.sign(p)
	if err != nil {
		return Issued{}, err
	}
	issued.Token = tok
	issued.TokenType = TokenType
	// expires_at в ответе — по тому, что истечёт раньше
	if tp.ExpiresAt.Before(issued.ExpiresAt) {
		issued.ExpiresAt = tp.ExpiresAt
	}
	return issued, nil
}

func (b *HybridBackend) Authenticate(r *http.Request) (Principal, error) {
	p, err := b.session.Authenticate(r)
	if err == nil {
		return p, nil
	}
	if _, ok := BearerToken(r); !ok {
		return Principal{}, err
	}
	p, tokErr := b.token.Authenticate(r)
	if tokErr != nil {
		return Principal{}, errors.Join(err, tokErr)
	}
	return p, nil
}

// Revoke гасит сессию; выданный вместе с ней токен доживает до exp.
func (b *HybridBackend) Revoke(w http.ResponseWriter, r *http.Request) error {
	return b.session.Revoke(w, r)
}
