// Package middleware — проверка доступа и журнал запросов для chi.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"Cestas/internal/auth"
	"Cestas/internal/logging"
	"Cestas/internal/models"
)

// Guard пропускает запрос дальше только с действующим контекстом входа
// и, если нужно, с подходящей ролью. Principal кладётся в контекст запроса.
type Guard struct {
	backend       auth.Backend
	log           logging.Logger
	devRoleBypass bool
}

func NewGuard(backend auth.Backend, log logging.Logger, devRoleBypass bool) *Guard {
	if log == nil {
		log = logging.Nop()
	}
	if devRoleBypass {
		log.Warn(context.Background(), "AUTH_DEV_ROLE_BYPASS is on: role checks are NOT enforced, development only")
	}
	return &Guard{backend: backend, log: log, devRoleBypass: devRoleBypass}
}

// Authorize: пустой roles — достаточно войти.
func (g *Guard) Authorize(r *http.Request, roles ...string) (auth.Principal, error) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		var err error
		p, err = g.backend.Authenticate(r)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				err = errors.Join(auth.ErrUnauthenticated, err)
			}
			return auth.Principal{}, err
		}
	}

	if len(roles) == 0 || p.HasRole(roles...) {
		return p, nil
	}
	if g.devRoleBypass {
		g.log.Warn(r.Context(), "role check bypassed",
			"path", r.URL.Path, "user", p.Name, "role", p.Role, "allowed", roles)
		return p, nil
	}
	return p, auth.ErrForbidden
}

func (g *Guard) LoginRequired(next http.Handler) http.Handler {
	return g.require(next, nil)
}

// RoleRequired — chi-совместимая мидлварь:
//
//	r.With(guard.RoleRequired(models.RoleAdmin)).Post("/insumos", h.CreateSupply)
func (g *Guard) RoleRequired(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.require(next, roles)
	}
}

// AdminOnly — обёртка для отдельного хендлера.
func (g *Guard) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return g.require(next, []string{models.RoleAdmin}).ServeHTTP
}

// PageRequired — для HTML-страниц: без входа редирект на страницу логина.
func (g *Guard) PageRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Authorize(r)
		if err != nil {
			g.log.Info(r.Context(), "page access denied", "path", r.URL.Path, "reason", err)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

func (g *Guard) require(next http.Handler, roles []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Authorize(r, roles...)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
			return
		case errors.Is(err, auth.ErrForbidden):
			g.log.Warn(r.Context(), "access denied: role not allowed",
				"path", r.URL.Path, "user", p.Name, "role", p.Role, "allowed", roles)
		default:
			g.log.Info(r.Context(), "access denied: unauthenticated",
				"path", r.URL.Path, "allowed", roles, "reason", err)
		}
		writeError(w, auth.HTTPStatus(err), auth.Message(err))
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": msg,
		"error":   msg,
	})
}
