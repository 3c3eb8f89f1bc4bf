// Package server собирает chi-роутер и запускает HTTP-сервер.
package server

import (
	"net/http"
	"time"

	"Cestas/internal/handlers"
	"Cestas/internal/logging"
	mw "Cestas/internal/middleware"
	"Cestas/internal/models"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

// NewRouter — все маршруты сервиса. Доступ решает guard, хендлеры о нём не знают.
func NewRouter(h *handlers.Handler, guard *mw.Guard, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	// базовые middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(chimw.RedirectSlashes) // /path/ -> /path

	// ---------- Публичное ----------
	r.Get("/", h.Index)
	r.Get("/ping", h.Ping)
	r.Get("/css/*", h.Static)
	r.Get("/js/*", h.Static)
	r.Get("/static/*", h.Static)

	for _, p := range []string{"/login", "/api/login"} {
		r.Post(p, h.Login)
	}
	for _, p := range []string{"/logout", "/api/logout"} {
		r.Post(p, h.Logout)
	}

	// само приложение: без входа — редирект на страницу логина
	r.With(guard.PageRequired).Get("/app", h.App)

	// ---------- Любой вошедший ----------
	r.Group(func(g chi.Router) {
		g.Use(guard.LoginRequired)

		g.Get("/api/me", h.Me)
		g.Get("/dashboard-data", h.Dashboard)

		g.Get("/buscar-familias", h.SearchFamilies)
		g.Post("/cadastrar-familia", h.CreateFamily)

		g.Get("/listar-entregas", h.ListDeliveries)
		g.Post("/registrar-entrega", h.CreateDelivery)

		g.Post("/registrar-entrada-estoque", h.CreateStockEntry)
		g.Get("/saldo-estoque", h.StockBalance)
		g.Get("/movimentacoes-estoque", h.StockMovements)

		g.Get("/insumos", h.ListSupplies)
		g.Get("/kits", h.ListKits)
		g.Get("/kits/{id}/itens", h.ListKitItems)
	})

	// ---------- Справочник: запись только admin ----------
	r.Group(func(g chi.Router) {
		g.Use(guard.RoleRequired(models.RoleAdmin))

		g.Post("/insumos", h.CreateSupply)
		g.Post("/kits", h.CreateKit)
		g.Post("/kits/{id}/itens", h.UpsertKitItem)
	})
	r.Delete("/kits/itens/{itemID}", guard.AdminOnly(h.DeleteKitItem))

	return r
}
