// Package dashboard собирает сводку для главной страницы.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Cestas/internal/dbx"
	"Cestas/internal/models"
	"Cestas/internal/repositories/deliveries"
	"Cestas/internal/repositories/families"
	"Cestas/internal/repositories/stock"
)

const recentDeliveries = 3

// Service читает все цифры в одной read-only транзакции, чтобы сводка
// была согласованной.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) Get(ctx context.Context) (*models.Dashboard, error) {
	out := &models.Dashboard{LastDeliveries: []models.RecentDelivery{}}

	err := dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		out.TotalFamilies, out.TotalPeople, err = families.NewPostgresRepository(tx).Totals(ctx)
		if err != nil {
			return fmt.Errorf("families totals: %w", err)
		}

		dr := deliveries.NewPostgresRepository(tx)
		if out.BasketsMonth, err = dr.BasketsSince(ctx, monthStart(s.now())); err != nil {
			return fmt.Errorf("baskets this month: %w", err)
		}

		if out.BasketsInStock, err = stock.NewPostgresRepository(tx).Balance(ctx); err != nil {
			return fmt.Errorf("stock balance: %w", err)
		}

		recent, err := dr.List(ctx, models.DeliveryFilter{Limit: recentDeliveries})
		if err != nil {
			return fmt.Errorf("recent deliveries: %w", err)
		}
		for _, d := range recent {
			out.LastDeliveries = append(out.LastDeliveries, models.RecentDelivery{
				Date:        models.FormatDate(d.DeliveredOn),
				Family:      d.FamilyName,
				Responsible: d.DeliveredBy,
				Quantity:    d.BasketQuantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
