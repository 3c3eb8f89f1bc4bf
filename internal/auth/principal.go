package auth

import (
	"context"
	"slices"
	"time"
)

// Method — чем подтверждён вход.
type Method string

const (
	MethodSession Method = "session"
	MethodToken   Method = "token"
)

// Principal — аутентифицированный контекст запроса.
// UserID == 0 у аварийного администратора: строки в users у него нет.
type Principal struct {
	UserID    int64
	Name      string
	Role      string
	Method    Method
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (p Principal) IsEmergency() bool {
	return p.UserID == 0
}

func (p Principal) HasRole(roles ...string) bool {
	return slices.Contains(roles, p.Role)
}

// Expired: нулевой ExpiresAt считается истёкшим.
func (p Principal) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom достаёт Principal, положенный guard'ом.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
