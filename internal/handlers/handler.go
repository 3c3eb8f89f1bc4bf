// Package handlers — HTTP-хендлеры сервиса. Все зависимости приходят
// через Deps, глобального состояния нет.
package handlers

import (
	"context"

	"Cestas/internal/auth"
	"Cestas/internal/logging"
	"Cestas/internal/models"
	"Cestas/internal/repositories/catalog"
	"Cestas/internal/repositories/deliveries"
	"Cestas/internal/repositories/families"
	"Cestas/internal/repositories/stock"

	"github.com/spf13/afero"
)

// Authenticator — проверка логина и пароля (auth.Service).
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (auth.Principal, error)
}

// DashboardSource — сводка для главной (dashboard.Service).
type DashboardSource interface {
	Get(ctx context.Context) (*models.Dashboard, error)
}

type Deps struct {
	Auth    Authenticator
	Backend auth.Backend

	Families   families.Repository
	Deliveries deliveries.Repository
	Stock      stock.Repository
	Catalog    catalog.Repository
	Dashboard  DashboardSource

	// Web — корень статики: login.html, index.html, css/, js/, static/.
	Web afero.Fs
	Log logging.Logger
}

type Handler struct {
	auth    Authenticator
	backend auth.Backend

	families   families.Repository
	deliveries deliveries.Repository
	stock      stock.Repository
	catalog    catalog.Repository
	dashboard  DashboardSource

	web afero.Fs
	log logging.Logger
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.Web == nil {
		d.Web = afero.NewMemMapFs()
	}
	return &Handler{
		auth:       d.Auth,
		backend:    d.Backend,
		families:   d.Families,
		deliveries: d.Deliveries,
		stock:      d.Stock,
		catalog:    d.Catalog,
		dashboard:  d.Dashboard,
		web:        d.Web,
		log:        d.Log,
	}
}
